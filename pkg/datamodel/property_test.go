package datamodel

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	propObjects = []string{"host", "ip", "fqdn", "uri"}
	propFacts   = []string{"resolvesTo", "mentions", "alias", "category"}
)

// bindingFromCode maps a small integer onto a binding so that generated
// catalogs collide often.
func bindingFromCode(code int) FactBinding {
	b := FactBinding{
		Name:          propFacts[code%4],
		Source:        propObjects[(code/4)%4],
		Bidirectional: (code/64)%2 == 1,
	}
	if d := (code / 16) % 4; d != 0 {
		b.Destination = propObjects[d]
	}
	return b
}

func buildCatalogs(objectCodes, factCodes []int) (*ObjectTypeList, *FactTypeList) {
	objects := &ObjectTypeList{}
	for _, c := range objectCodes {
		objects.Data = append(objects.Data, &ObjectType{Name: propObjects[c%4]})
	}
	facts := &FactTypeList{}
	for _, c := range factCodes {
		b := bindingFromCode(c)
		ob := &ObjectBinding{SourceObjectType: &TypeRef{Name: b.Source}, BidirectionalBinding: b.Bidirectional}
		if !b.IsUnary() {
			ob.DestinationObjectType = &TypeRef{Name: b.Destination}
		}
		facts.Data = append(facts.Data, &FactType{Name: b.Name, RelevantObjectBindings: []*ObjectBinding{ob}})
	}
	return objects, facts
}

// shuffleWithDuplicates reorders codes and repeats some of them.
func shuffleWithDuplicates(codes []int, seed int64) []int {
	r := rand.New(rand.NewSource(seed))
	out := append([]int(nil), codes...)
	for _, c := range codes {
		if r.Intn(3) == 0 {
			out = append(out, c)
		}
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func TestModelEqualityLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	codes := gen.SliceOf(gen.IntRange(0, 127))

	properties.Property("equality is reflexive", prop.ForAll(
		func(objectCodes, factCodes []int) bool {
			o, f := buildCatalogs(objectCodes, factCodes)
			m := New(o, f, WithLogger(quietLogger()))
			return m.Equal(m)
		},
		codes, codes,
	))

	properties.Property("order and duplicates do not matter", prop.ForAll(
		func(objectCodes, factCodes []int, seed int64) bool {
			o1, f1 := buildCatalogs(objectCodes, factCodes)
			o2, f2 := buildCatalogs(shuffleWithDuplicates(objectCodes, seed), shuffleWithDuplicates(factCodes, seed+1))
			a := New(o1, f1, WithLogger(quietLogger()))
			b := New(o2, f2, WithLogger(quietLogger()))
			return a.Equal(b) && b.Equal(a)
		},
		codes, codes, gen.Int64(),
	))

	properties.Property("snapshot round trip preserves equality", prop.ForAll(
		func(objectCodes, factCodes []int) bool {
			o, f := buildCatalogs(objectCodes, factCodes)
			m := New(o, f, WithLogger(quietLogger()))
			return FromSnapshot(m.Snapshot(), WithLogger(quietLogger())).Equal(m)
		},
		codes, codes,
	))

	properties.Property("adding a new binding breaks equality", prop.ForAll(
		func(objectCodes, factCodes []int) bool {
			o, f := buildCatalogs(objectCodes, factCodes)
			m := New(o, f, WithLogger(quietLogger()))

			o2, f2 := buildCatalogs(objectCodes, factCodes)
			f2.Data = append(f2.Data, &FactType{Name: "neverGenerated", RelevantObjectBindings: []*ObjectBinding{
				{SourceObjectType: &TypeRef{Name: "host"}},
			}})
			return !m.Equal(New(o2, f2, WithLogger(quietLogger())))
		},
		codes, codes,
	))

	properties.TestingRun(t)
}
