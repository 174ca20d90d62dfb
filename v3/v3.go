/*
 * v3.go, part of gapmd.
 *
 * Copyright 2026 The gapmd developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space, backed by a gonum mat.Dense with
// exactly 3 columns. Fundamental accessors panic on out-of-range indexes, as
// an error there means the program itself is wrong.
type Matrix struct {
	*mat.Dense
}

// Matrix2Dense returns the underlying mat.Dense of A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

// Dense2Matrix wraps a mat.Dense in a Matrix. It panics if the
// matrix does not have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

// Zeros returns a zero-valued Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

// NVecs returns the number of vectors in the Matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

// Copy returns a new Matrix with a deep copy of the data in F.
func (F *Matrix) Copy() *Matrix {
	ret := Zeros(F.NVecs())
	ret.Dense.Copy(F.Dense)
	return ret
}

// VecView returns a view of the ith vector of the Matrix.
// Changes in the view are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

// View returns a view of F starting from i,0 and spanning r rows.
// Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, r int) *Matrix {
	ret := F.Dense.Slice(i, i+r, 0, 3).(*mat.Dense)
	return &Matrix{ret}
}

// SetMatrix puts the matrix A in the receiver, starting from the ith vector.
func (F *Matrix) SetMatrix(i int, A *Matrix) {
	ar := A.NVecs()
	if ar+i > F.NVecs() {
		panic(ErrShape)
	}
	for k := 0; k < ar; k++ {
		for j := 0; j < 3; j++ {
			F.Set(i+k, j, A.At(k, j))
		}
	}
}

// SwapVecs swaps the vectors i and j of the receiver.
func (F *Matrix) SwapVecs(i, j int) {
	n := F.NVecs()
	if i >= n || j >= n {
		panic(ErrIndexOutOfRange)
	}
	for k := 0; k < 3; k++ {
		tmp := F.At(i, k)
		F.Set(i, k, F.At(j, k))
		F.Set(j, k, tmp)
	}
}

// AddVec adds the 1-vector matrix vec to each vector of A, putting
// the result in the receiver.
func (F *Matrix) AddVec(A, vec *Matrix) {
	if vec.NVecs() != 1 || F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	for i := 0; i < A.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+vec.At(0, j))
		}
	}
}

// SubVec subtracts the 1-vector matrix vec from each vector of A, putting
// the result in the receiver.
func (F *Matrix) SubVec(A, vec *Matrix) {
	if vec.NVecs() != 1 || F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	for i := 0; i < A.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)-vec.At(0, j))
		}
	}
}

// Cross puts the cross product of the first vectors of a and b in the
// first vector of the receiver.
func (F *Matrix) Cross(a, b *Matrix) {
	if a.NVecs() < 1 || b.NVecs() < 1 || F.NVecs() < 1 {
		panic(ErrNoCrossProduct)
	}
	c0 := a.At(0, 1)*b.At(0, 2) - a.At(0, 2)*b.At(0, 1)
	c1 := a.At(0, 2)*b.At(0, 0) - a.At(0, 0)*b.At(0, 2)
	c2 := a.At(0, 0)*b.At(0, 1) - a.At(0, 1)*b.At(0, 0)
	F.Set(0, 0, c0)
	F.Set(0, 1, c1)
	F.Set(0, 2, c2)
}

// Dot returns the dot product between the first vectors of F and B.
func (F *Matrix) Dot(B *Matrix) float64 {
	if F.NVecs() < 1 || B.NVecs() < 1 {
		panic(ErrNotEnoughElements)
	}
	return F.At(0, 0)*B.At(0, 0) + F.At(0, 1)*B.At(0, 1) + F.At(0, 2)*B.At(0, 2)
}

// Norm returns the Frobenius norm of the Matrix. For a 1-vector Matrix
// this is the euclidean length of the vector.
func (F *Matrix) Norm() float64 {
	return mat.Norm(F.Dense, 2)
}

// Unit puts in the receiver the first vector of A scaled to unit length.
func (F *Matrix) Unit(A *Matrix) {
	n := math.Sqrt(A.At(0, 0)*A.At(0, 0) + A.At(0, 1)*A.At(0, 1) + A.At(0, 2)*A.At(0, 2))
	if n == 0 {
		panic(ErrNotEnoughElements)
	}
	for j := 0; j < 3; j++ {
		F.Set(0, j, A.At(0, j)/n)
	}
}

// String returns a neat representation of the Matrix.
func (F *Matrix) String() string {
	r := F.NVecs()
	ret := ""
	for i := 0; i < r; i++ {
		ret += fmt.Sprintf("%8.3f %8.3f %8.3f\n", F.At(i, 0), F.At(i, 1), F.At(i, 2))
	}
	return ret
}

//Errors

// Error is the concrete error type of the package. It implements the
// Error interface of the root gapmd package, which is not imported here
// to avoid a circular dependency.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

// Decorate adds the dec string to the decoration slice of strings of the
// error, and returns the resulting slice. An empty dec only returns the
// current decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

// PanicMsg is a message used for panics. It satisfies the error
// interface, but for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("gapmd/v3: A Matrix should have 3 columns")
	ErrNoCrossProduct    = PanicMsg("gapmd/v3: Invalid matrix for cross product")
	ErrNotEnoughElements = PanicMsg("gapmd/v3: not enough elements in Matrix")
	ErrShape             = PanicMsg("gapmd/v3: Dimension mismatch")
	ErrIndexOutOfRange   = PanicMsg("gapmd/v3: index out of range")
)
