/*
 * v3_test.go, part of gapmd.
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
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 0, 0, 0, 2, 0})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("wrong vector count %d", A.NVecs())
	}
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("a slice not divisible by 3 should be rejected")
	}
}

func TestViews(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	v := A.VecView(1)
	if v.At(0, 0) != 4 || v.At(0, 2) != 6 {
		Te.Error("wrong view contents")
	}
	v.Set(0, 0, 40)
	if A.At(1, 0) != 40 {
		Te.Error("views must share storage with the viewed matrix")
	}
	c := A.Copy()
	c.Set(0, 0, 99)
	if A.At(0, 0) == 99 {
		Te.Error("Copy must not share storage")
	}
	w := A.View(1, 2)
	if w.NVecs() != 2 || w.At(1, 1) != 8 {
		Te.Error("wrong multi-row view")
	}
}

func TestVectorOps(Te *testing.T) {
	x, _ := NewMatrix([]float64{1, 0, 0})
	y, _ := NewMatrix([]float64{0, 1, 0})
	z := Zeros(1)
	z.Cross(x, y)
	if z.At(0, 0) != 0 || z.At(0, 1) != 0 || z.At(0, 2) != 1 {
		Te.Errorf("x cross y should be z, got %v", z)
	}
	if x.Dot(y) != 0 {
		Te.Error("orthogonal vectors should have zero dot product")
	}
	a, _ := NewMatrix([]float64{3, 4, 0})
	if math.Abs(a.Norm()-5) > 1e-12 {
		Te.Errorf("wrong norm %f", a.Norm())
	}
	u := Zeros(1)
	u.Unit(a)
	if math.Abs(u.Norm()-1) > 1e-12 {
		Te.Error("Unit should produce a unit vector")
	}
}

func TestSwapAndSet(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	A.SwapVecs(0, 1)
	if A.At(0, 0) != 4 || A.At(1, 2) != 3 {
		Te.Error("SwapVecs did not swap")
	}
	B := Zeros(3)
	B.SetMatrix(1, A)
	if B.At(1, 0) != 4 || B.At(2, 2) != 3 || B.At(0, 0) != 0 {
		Te.Error("SetMatrix misplaced the data")
	}
	defer func() {
		if recover() == nil {
			Te.Error("an oversized SetMatrix should panic")
		}
	}()
	B.SetMatrix(2, A)
}

func TestAddSubVec(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2})
	shift, _ := NewMatrix([]float64{0, 0, 10})
	out := Zeros(2)
	out.AddVec(A, shift)
	if out.At(0, 2) != 11 || out.At(1, 2) != 12 || out.At(1, 0) != 2 {
		Te.Error("AddVec added wrongly")
	}
	out.SubVec(out, shift)
	if out.At(0, 2) != 1 || out.At(1, 2) != 2 {
		Te.Error("SubVec subtracted wrongly")
	}
}
