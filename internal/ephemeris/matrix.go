package ephemeris

import (
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
)

// Matrix3 is a row-major 3×3 matrix.
type Matrix3 [3][3]float64

func Identity() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// RotX, RotY and RotZ are coordinate (passive) rotations: they express a
// fixed vector in axes turned by angle about the named axis.
func RotX(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{{1, 0, 0}, {0, c, s}, {0, -s, c}}
}

func RotY(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{{c, 0, -s}, {0, 1, 0}, {s, 0, c}}
}

func RotZ(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{{c, s, 0}, {-s, c, 0}, {0, 0, 1}}
}

func (m Matrix3) Mul(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

func (m Matrix3) MulVec(v dynamo.Vec3) dynamo.Vec3 {
	return dynamo.Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m Matrix3) Transpose() Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}
