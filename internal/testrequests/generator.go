package testrequests

import (
	"encoding/json"
	"math"
	"math/rand/v2"

	"github.com/okian/bmi/internal/domain/bmi"
	"github.com/okian/bmi/internal/domain/model"
)

// Height range for generated adults, in meters.
const (
	minHeightM   = 1.45
	heightRangeM = 0.60
)

// profile draws valid inputs whose BMI lands in [minBMI, maxBMI).
type profile struct {
	name   string
	minBMI float64
	maxBMI float64
	weight int // relative frequency
}

// Profiles cover every category; normal weight is the most common.
var profiles = []profile{
	{name: "underweight", minBMI: 14.0, maxBMI: bmi.UnderweightUpper, weight: 2},
	{name: "normal", minBMI: bmi.UnderweightUpper, maxBMI: bmi.NormalUpper, weight: 4},
	{name: "overweight", minBMI: bmi.NormalUpper, maxBMI: bmi.OverweightUpper, weight: 3},
	{name: "obese", minBMI: bmi.OverweightUpper, maxBMI: 45.0, weight: 2},
}

// boundaryCases sit exactly on or just below a threshold. 2.0 m keeps h*h exact.
var boundaryCases = []model.Request{
	{WeightKg: bmi.UnderweightUpper * 4, HeightM: 2.0},
	{WeightKg: bmi.UnderweightUpper*4 - 0.04, HeightM: 2.0},
	{WeightKg: bmi.NormalUpper * 4, HeightM: 2.0},
	{WeightKg: bmi.NormalUpper*4 - 0.04, HeightM: 2.0},
	{WeightKg: bmi.OverweightUpper * 4, HeightM: 2.0},
	{WeightKg: bmi.OverweightUpper*4 - 0.04, HeightM: 2.0},
}

// invalidCases are decodable but fail validation.
var invalidCases = []struct {
	name string
	req  model.Request
}{
	{name: "zero-weight", req: model.Request{WeightKg: 0, HeightM: 1.8}},
	{name: "zero-height", req: model.Request{WeightKg: 70, HeightM: 0}},
	{name: "negative-weight", req: model.Request{WeightKg: -5, HeightM: 1.75}},
	{name: "negative-height", req: model.Request{WeightKg: 70, HeightM: -1.75}},
}

// malformedCases cannot be decoded into a request.
var malformedCases = []struct {
	name string
	body string
}{
	{name: "string-weight", body: `{"weight_kg":"seventy","height_m":1.75}`},
	{name: "missing-height", body: `{"weight_kg":70}`},
	{name: "truncated", body: `{"weight_kg":70,"height_m":1.75`},
	{name: "not-json", body: `weight=70&height=1.75`},
	{name: "trailing-object", body: `{"weight_kg":70,"height_m":1.75}{}`},
}

// boundaryShare is the fraction of valid cases drawn from boundaryCases.
const boundaryShare = 0.05

// Generator produces request cases. It is not safe for concurrent use.
type Generator struct {
	rng          *rand.Rand
	invalidRatio float64
	totalWeight  int
}

// NewGenerator returns a Generator. The same seed yields the same cases.
func NewGenerator(seed uint64, invalidRatio float64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	total := 0
	for _, p := range profiles {
		total += p.weight
	}
	return &Generator{
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		invalidRatio: invalidRatio,
		totalWeight:  total,
	}
}

// Generate returns n cases with IDs 0..n-1.
func (g *Generator) Generate(n int) []Case {
	cases := make([]Case, n)
	for i := range cases {
		cases[i] = g.next(i)
	}
	return cases
}

func (g *Generator) next(id int) Case {
	if g.rng.Float64() < g.invalidRatio {
		return g.rejected(id)
	}
	if g.rng.Float64() < boundaryShare {
		req := boundaryCases[g.rng.IntN(len(boundaryCases))]
		return newRequestCase(id, KindValid, "boundary", req)
	}
	return g.valid(id)
}

func (g *Generator) valid(id int) Case {
	p := g.pickProfile()
	height := round(minHeightM+g.rng.Float64()*heightRangeM, 2)
	target := p.minBMI + g.rng.Float64()*(p.maxBMI-p.minBMI)
	weight := round(target*height*height, 1)
	return newRequestCase(id, KindValid, p.name, model.Request{WeightKg: weight, HeightM: height})
}

func (g *Generator) rejected(id int) Case {
	i := g.rng.IntN(len(invalidCases) + len(malformedCases))
	if i < len(invalidCases) {
		c := invalidCases[i]
		return newRequestCase(id, KindInvalid, c.name, c.req)
	}
	c := malformedCases[i-len(invalidCases)]
	return Case{ID: id, Kind: KindMalformed, Profile: c.name, Body: []byte(c.body)}
}

func (g *Generator) pickProfile() profile {
	n := g.rng.IntN(g.totalWeight)
	for _, p := range profiles {
		if n < p.weight {
			return p
		}
		n -= p.weight
	}
	return profiles[len(profiles)-1]
}

func newRequestCase(id int, kind Kind, name string, req model.Request) Case {
	body, _ := json.Marshal(req)
	return Case{
		ID:       id,
		Kind:     kind,
		Profile:  name,
		WeightKg: req.WeightKg,
		HeightM:  req.HeightM,
		Body:     body,
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
