// Package transform holds local and world transforms and propagates them
// down entity hierarchies every tick.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/ecs"
)

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
	axisZ = mgl32.Vec3{0, 0, 1}
)

// Transform is an entity's placement relative to its parent, or to the world
// when it has none.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity returns the transform that changes nothing.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// FromTranslation returns an identity transform moved to v.
func FromTranslation(v mgl32.Vec3) Transform {
	t := Identity()
	t.Translation = v
	return t
}

// FromRotation returns an identity transform rotated by q.
func FromRotation(q mgl32.Quat) Transform {
	t := Identity()
	t.Rotation = q
	return t
}

// FromRotationEulerYXZ builds a rotation applying yaw about Y, then pitch
// about the rotated X, then roll about the rotated Z. Angles are radians.
func FromRotationEulerYXZ(yaw, pitch, roll float32) mgl32.Quat {
	qy := mgl32.QuatRotate(yaw, axisY)
	qx := mgl32.QuatRotate(pitch, axisX)
	qz := mgl32.QuatRotate(roll, axisZ)
	return qy.Mul(qx).Mul(qz).Normalize()
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// Forward is the local -Z axis after rotation.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// GlobalTransform is the world matrix written by the propagation system.
type GlobalTransform struct {
	Matrix mgl32.Mat4
}

// Translation returns the world position.
func (g GlobalTransform) Translation() mgl32.Vec3 {
	return g.Matrix.Col(3).Vec3()
}

// Forward returns the world -Z axis, normalized.
func (g GlobalTransform) Forward() mgl32.Vec3 {
	return g.Matrix.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3().Normalize()
}

// NewGlobalTransform returns the world matrix of a root entity with local t.
func NewGlobalTransform(t Transform) GlobalTransform {
	return GlobalTransform{Matrix: t.Matrix()}
}

// Parent links an entity to the entity its Transform is relative to.
type Parent struct {
	Ref *ecs.EntityRef
}
