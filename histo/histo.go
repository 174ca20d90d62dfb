//Package histo builds histograms of descriptor values, to inspect what
//regions of descriptor space a training set actually covers before
//spending oracle calls on it. Counts are weighted: each sample carries
//the cutoff weight of the environment it came from.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/kcl-tscm/gapmd/descriptor"
)

//Uniform returns nbins+1 equispaced dividers covering [min,max].
func Uniform(min, max float64, nbins int) []float64 {
	if nbins < 1 || max <= min {
		panic("gapmd/histo.Uniform: need at least one bin and max>min")
	}
	return floats.Span(make([]float64, nbins+1), min, max)
}

//Data is a one-dimensional weighted histogram. Samples outside the
//divider range are dropped, not clamped.
type Data struct {
	normalized bool
	total      float64
	dividers   []float64
	counts     []float64
}

//NewData returns an empty histogram over the given dividers, which
//must be sorted ascending. The dividers are copied, so the caller can
//keep mutating its slice.
func NewData(dividers []float64) *Data {
	if len(dividers) < 2 {
		panic("gapmd/histo.NewData: need at least 2 dividers")
	}
	for i := 1; i < len(dividers); i++ {
		if dividers[i] <= dividers[i-1] {
			panic("gapmd/histo.NewData: dividers must increase strictly")
		}
	}
	D := new(Data)
	D.dividers = make([]float64, len(dividers))
	copy(D.dividers, dividers)
	D.counts = make([]float64, len(dividers)-1)
	return D
}

//Bins returns the number of bins.
func (D *Data) Bins() int {
	return len(D.counts)
}

//Add accumulates one sample with the given weight. Negative weights
//are rejected, values off either end of the dividers are ignored.
func (D *Data) Add(value, weight float64) {
	if weight < 0 {
		panic("gapmd/histo.Data.Add: negative weight")
	}
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for j := 0; j < len(D.dividers)-1; j++ {
		if D.dividers[j] <= value && value < D.dividers[j+1] {
			D.counts[j] += weight
			D.total += weight
			break
		}
	}
	if norma {
		D.Normalize()
	}
}

//AddData accumulates the given samples with unit weight each.
func (D *Data) AddData(point ...float64) {
	for _, v := range point {
		D.Add(v, 1)
	}
}

//Normalized returns true if the histogram is normalized.
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize scales the counts so they sum to 1.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize restores the raw weighted counts.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := D.total
	if normalize {
		n = 1 / D.total
	}
	D.normalized = normalize
	floats.Scale(n, D.counts)
}

//CopyDividers copies the dividers of the histogram, into dest if one
//of sufficient size is given.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	return floats.ScaleTo(d, 1, D.dividers)
}

//Copy copies the counts of the histogram, into dest if one of
//sufficient size is given.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.counts), dest...)
	return floats.ScaleTo(d, 1, D.counts)
}

//View returns the counts themselves, not a copy.
func (D *Data) View() []float64 {
	return D.counts
}

//Sum returns the sum over all bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.counts)
}

//Total returns the accumulated weight, including what normalization
//divided out.
func (D *Data) Total() float64 {
	return D.total
}

//Sub puts the bin-wise difference a-b in the receiver, or its absolute
//value if abs is given and true. All three histograms must share
//dividers.
func (D *Data) Sub(a, b *Data, abs ...bool) {
	f := func(a float64) float64 { return a }
	if len(abs) > 0 && abs[0] {
		f = math.Abs
	}
	if !floats.Equal(a.dividers, b.dividers) || !floats.Equal(a.dividers, D.dividers) {
		panic("gapmd/histo.Data.Sub: dividers must match")
	}
	for i := range a.counts {
		D.counts[i] = f(a.counts[i] - b.counts[i])
	}
}

func (D *Data) String() string {
	ret := fmt.Sprintf("normalized: %v, total weight: %6.2f\n", D.normalized, D.total)
	d := make([]string, 0, len(D.counts))
	h := make([]string, 0, len(D.counts))
	for i, v := range D.counts {
		d = append(d, fmt.Sprintf("%6.2f-%6.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%13.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Normalized bool      `json:"normalized"`
		Total      float64   `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Counts     []float64 `json:"counts"`
	}{
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Counts:     D.counts,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		Normalized bool      `json:"normalized"`
		Total      float64   `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Counts     []float64 `json:"counts"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.counts = a.Counts
	return nil
}

//A Set is one histogram per descriptor component, all over the same
//dividers.
type Set struct {
	dividers []float64
	d        []*Data
}

//NewSet returns a Set of ncomp empty histograms over the given
//dividers.
func NewSet(ncomp int, dividers []float64) *Set {
	if ncomp < 1 {
		panic("gapmd/histo.NewSet: need at least one component")
	}
	S := new(Set)
	S.dividers = make([]float64, len(dividers))
	copy(S.dividers, dividers)
	S.d = make([]*Data, ncomp)
	for i := range S.d {
		S.d[i] = NewData(dividers)
	}
	return S
}

//Components returns the number of histograms in the set.
func (S *Set) Components() int {
	return len(S.d)
}

//Component returns the histogram of the i-th descriptor component.
//It panics if i is out of range.
func (S *Set) Component(i int) *Data {
	if i < 0 || i >= len(S.d) {
		panic("gapmd/histo.Set.Component: component out of range")
	}
	return S.d[i]
}

//Accumulate adds every sample to the per-component histograms, each
//value weighted by its sample's cutoff weight. Samples whose dimension
//does not match the set are an error.
func (S *Set) Accumulate(items []descriptor.Item) error {
	for i, it := range items {
		if len(it.Vector) != len(S.d) {
			return fmt.Errorf("gapmd/histo.Set.Accumulate: sample %d has %d components, set has %d",
				i, len(it.Vector), len(S.d))
		}
	}
	for _, it := range items {
		for j, v := range it.Vector {
			S.d[j].Add(v, it.Weight)
		}
	}
	return nil
}

//NormalizeAll normalizes every histogram in the set.
func (S *Set) NormalizeAll() {
	for _, v := range S.d {
		v.Normalize()
	}
}

//UnNormalizeAll restores the raw counts of every histogram in the set.
func (S *Set) UnNormalizeAll() {
	for _, v := range S.d {
		v.UnNormalize()
	}
}

func (S *Set) String() string {
	ret := fmt.Sprintf("components:%d | Data:\n", len(S.d))
	t := make([]string, 0, len(S.d))
	for _, v := range S.d {
		t = append(t, v.String())
	}
	return ret + strings.Join(t, "\n\n")
}

func (S *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Dividers []float64 `json:"dividers"`
		D        []*Data   `json:"data"`
	}{
		Dividers: S.dividers,
		D:        S.d,
	})
}

func (S *Set) UnmarshalJSON(b []byte) error {
	var a struct {
		Dividers []float64 `json:"dividers"`
		D        []*Data   `json:"data"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	S.dividers = a.Dividers
	S.d = a.D
	return nil
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= N {
		d = dest[0]
		if len(dest[0]) > N {
			d = dest[0][:N] //floats.ScaleTo wants both slices to _match_
		}
	} else {
		d = make([]float64, N)
	}
	return d
}
