package taxengine

import "math"

// Band names shared by the UK income, dividend and gains band lists.
const (
	BandBasic      = "basic"
	BandHigher     = "higher"
	BandAdditional = "additional"
)

// Band is one slot of taxable capacity charged at a single marginal rate.
type Band struct {
	Name     string
	Capacity float64
	Rate     float64
}

// Slice is the portion of an amount that landed in a band.
type Slice struct {
	Band   string  `json:"band"`
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
	Tax    float64 `json:"tax"`
}

// Allocation is the result of spreading an amount over an ordered band list.
type Allocation struct {
	Slices []Slice
	// Left holds each band with its capacity reduced by what was used.
	Left []Band
}

// Allocate fills bands left to right: each band takes as much of the
// remaining amount as its capacity allows and passes the rest on. The final
// band absorbs whatever is left regardless of its capacity, so the slices
// always sum to amount.
func Allocate(amount float64, bands []Band) Allocation {
	alloc := Allocation{
		Slices: make([]Slice, 0, len(bands)),
		Left:   make([]Band, 0, len(bands)),
	}
	remaining := math.Max(0, amount)

	for i, band := range bands {
		capacity := math.Max(0, band.Capacity)
		used := math.Min(remaining, capacity)
		if i == len(bands)-1 {
			used = remaining
		}
		remaining -= used

		alloc.Slices = append(alloc.Slices, Slice{
			Band:   band.Name,
			Amount: used,
			Rate:   band.Rate,
			Tax:    used * band.Rate,
		})
		alloc.Left = append(alloc.Left, Band{
			Name:     band.Name,
			Capacity: math.Max(0, capacity-used),
			Rate:     band.Rate,
		})
	}
	return alloc
}

// Tax sums the tax charged across all slices.
func (a Allocation) Tax() float64 {
	total := 0.0
	for _, slice := range a.Slices {
		total += slice.Tax
	}
	return total
}

// Capacity returns the unused capacity of the named band, or zero.
func (a Allocation) Capacity(name string) float64 {
	for _, band := range a.Left {
		if band.Name == name {
			return band.Capacity
		}
	}
	return 0
}

// Reprice returns the bands with each rate replaced by the rate for the same
// band name in rates, keeping capacities.
func Reprice(bands []Band, rates map[string]float64) []Band {
	out := make([]Band, len(bands))
	for i, band := range bands {
		out[i] = Band{Name: band.Name, Capacity: band.Capacity, Rate: rates[band.Name]}
	}
	return out
}
