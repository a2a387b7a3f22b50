package kernel

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/alextrubacs/FlowTunnel/config"
)

// This file is the CPU twin of tunnel.frag. Every formula here mirrors the
// GLSL stage by stage; if one side changes, change the other.

const (
	lensEpsilon   = 0.001
	horizonEdge   = 0.003
	depthRate     = 0.15
	cellKeep      = 0.8
	radiusFactor  = 0.06
	boost         = 1.5
	minLayers     = 10.0
	maxLayers     = 40.0
	nearScale     = 20.0
	farScale      = 0.5
	highThreshold = 0.7
	lowThreshold  = 0.5
)

func fract(x float64) float64 {
	return x - math.Floor(x)
}

func mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Hash21 is the deterministic cell hash: a pure function of its inputs with
// a value in [0,1) and no visible periodicity over the grid range the star
// field uses (cell coordinates up to a few hundred, layer index up to 40).
func Hash21(p mgl64.Vec2) float64 {
	return fract(math.Sin(p.Dot(mgl64.Vec2{127.1, 311.7})) * 43758.5453123)
}

// densityT normalizes density from its 0.1-2 range into [0,1].
func densityT(density float64) float64 {
	return clamp01((density - 0.1) / 1.9)
}

// NumLayers maps density to the depth-layer count, 10 at minimum density up
// to 40 at maximum, rounding to nearest.
func NumLayers(density float64) int {
	return int(mix(minLayers, maxLayers, densityT(density)) + 0.5)
}

// StarThreshold maps density to the hash cutoff above which a cell holds a
// star. Higher density lowers the cutoff, so more cells qualify.
func StarThreshold(density float64) float64 {
	return mix(highThreshold, lowThreshold, densityT(density))
}

// Lensing applies the gravitational pre-distortion, pushing uv outward by
// the deflection of a hole with the given radius and warp strength. The
// caller is responsible for only invoking it when radius > 0.
func Lensing(uv mgl64.Vec2, radius, warp float64) mgl64.Vec2 {
	r2 := uv.Dot(uv)
	deflection := warp * radius * radius / (r2 + lensEpsilon)
	return uv.Mul(1 + deflection)
}

// Tonemap compresses an accumulated color with 1-exp(-c) per channel. It is
// monotone, fixes zero, and approaches but never reaches one.
func Tonemap(c mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		1 - math.Exp(-c[0]),
		1 - math.Exp(-c[1]),
		1 - math.Exp(-c[2]),
	}
}

// EDRBoost lifts tone-mapped color into extended-range headroom. Only
// applied when the surface reported EDR capability.
func EDRBoost(c mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		c[0] * (1 + c[0]*1.5),
		c[1] * (1 + c[1]*1.5),
		c[2] * (1 + c[2]*1.5),
	}
}

// HorizonMask is 0 inside the event horizon and 1 outside, with a soft
// anti-aliased transition band.
func HorizonMask(r, radius float64) float64 {
	return smoothstep(radius-horizonEdge, radius+horizonEdge, r)
}

// starField accumulates the depth layers for one fragment.
func starField(cfg config.Config, uv mgl64.Vec2, elapsed float64) mgl64.Vec3 {
	density := float64(cfg.Density)
	numLayers := NumLayers(density)
	threshold := StarThreshold(density)
	baseRadius := float64(cfg.Size) * radiusFactor
	glowWidth := mix(0.3, 2.0, float64(cfg.Blur))
	stretch := float64(cfg.Stretch)

	var col mgl64.Vec3
	for i := 0; i < numLayers; i++ {
		depth := fract(float64(i)/float64(numLayers) + elapsed*float64(cfg.Speed)*depthRate)
		scale := mix(nearScale, farScale, depth)
		fade := depth * smoothstep(0, 0.1, depth) * smoothstep(1, 0.8, depth)

		cell := mgl64.Vec2{math.Floor(uv[0] * scale), math.Floor(uv[1] * scale)}
		seed := cell.Add(mgl64.Vec2{17.13, 31.7}.Mul(float64(i)))
		if Hash21(seed) < threshold {
			continue
		}

		offset := mgl64.Vec2{
			Hash21(seed.Add(mgl64.Vec2{41.3, 289.2})) - 0.5,
			Hash21(seed.Add(mgl64.Vec2{93.1, 173.7})) - 0.5,
		}.Mul(cellKeep)
		star := cell.Add(mgl64.Vec2{0.5, 0.5}).Add(offset).Mul(1 / scale)
		d := uv.Sub(star)

		var dist float64
		if stretch > 0 {
			dir := mgl64.Vec2{1, 0}
			if star.Len() > 1e-5 {
				dir = star.Normalize()
			}
			radial := d.Dot(dir) / (1 + stretch*depth*3)
			tangential := d.Dot(mgl64.Vec2{-dir[1], dir[0]})
			dist = math.Hypot(radial, tangential)
		} else {
			dist = d.Len()
		}

		brightness := math.Exp(-dist*dist/(baseRadius*baseRadius*glowWidth)) * fade
		tint := Hash21(seed.Add(mgl64.Vec2{7.7, 11.3}))
		starColor := mgl64.Vec3{
			mix(0.72, 1, tint),
			mix(0.85, 1, tint),
			1,
		}
		col = col.Add(starColor.Mul(brightness * boost))
	}
	return col
}

// Shade computes the final color of one fragment at the aspect-corrected,
// center-origin coordinate uv. It follows tunnel.frag exactly: lensing,
// layer accumulation, tone mapping, optional EDR boost, horizon mask.
// A zero BlackHoleRadius takes the undistorted, unmasked path outright.
func Shade(cfg config.Config, elapsed float64, uv mgl64.Vec2, edr bool) mgl64.Vec3 {
	radius := float64(cfg.BlackHoleRadius)
	warped := uv
	if radius > 0 {
		warped = Lensing(uv, radius, float64(cfg.BlackHoleWarp))
	}

	col := Tonemap(starField(cfg, warped, elapsed))
	if edr {
		col = EDRBoost(col)
	}
	if radius > 0 {
		col = col.Mul(HorizonMask(uv.Len(), radius))
	}
	return col
}
