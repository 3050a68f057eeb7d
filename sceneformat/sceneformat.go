// Package sceneformat parses the renderer's legacy text scene format: one
// directive per line, space-separated tokens, primitives built up
// incrementally after each NEW_PRIMITIVE directive.
package sceneformat

import (
	"bufio"
	"fmt"
	"io"
	stdmath "math"
	"strconv"
	"strings"

	"pathtracer/geom"
	"pathtracer/material"
	"pathtracer/math"
	"pathtracer/scenepkg"
)

// Scene is the raw result of parsing: the pieces scenepkg.Build needs, plus
// image dimensions, which are declared in the text format but not part of
// the rendering Scene itself.
type Scene struct {
	Width, Height   int
	RayDepth        int
	Samples         int
	BackgroundColor math.Vec3
	Camera          scenepkg.Camera
	Primitives      []scenepkg.Primitive
	Materials       material.Table
}

// pending accumulates directives for the primitive most recently opened by
// NEW_PRIMITIVE, until the next NEW_PRIMITIVE or end of file flushes it.
type pending struct {
	figure   geom.Figure
	position math.Vec3
	rotation math.Quaternion
	mat      material.Material
	open     bool
}

// Parse reads the legacy text format from r.
func Parse(r io.Reader) (*Scene, error) {
	s := &Scene{}
	var camFovX float32
	var p pending

	flush := func() {
		if !p.open {
			return
		}
		s.Materials = append(s.Materials, p.mat)
		s.Primitives = append(s.Primitives, scenepkg.Primitive{
			Figure: geom.PositionedFigure{
				Figure:   p.figure,
				Position: p.position,
				Rotation: p.rotation,
			},
			MaterialIndex: uint32(len(s.Materials) - 1),
		})
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)

		var err error
		switch tokens[0] {
		case "DIMENSIONS":
			s.Width, err = parseInt(tokens, 1)
			if err == nil {
				s.Height, err = parseInt(tokens, 2)
			}
		case "RAY_DEPTH":
			s.RayDepth, err = parseInt(tokens, 1)
		case "SAMPLES":
			s.Samples, err = parseInt(tokens, 1)
		case "BG_COLOR":
			s.BackgroundColor, err = parseVec3(tokens, 1)
		case "CAMERA_POSITION":
			s.Camera.Position, err = parseVec3(tokens, 1)
		case "CAMERA_RIGHT":
			s.Camera.Right, err = parseVec3(tokens, 1)
		case "CAMERA_UP":
			s.Camera.Up, err = parseVec3(tokens, 1)
		case "CAMERA_FORWARD":
			s.Camera.Forward, err = parseVec3(tokens, 1)
		case "CAMERA_FOV_X":
			camFovX, err = parseFloat(tokens, 1)

		case "NEW_PRIMITIVE":
			flush()
			p = pending{rotation: math.QuaternionIdentity(), open: true}
		case "PLANE":
			var n math.Vec3
			if n, err = parseVec3(tokens, 1); err == nil {
				p.figure = geom.Figure{Plane: &geom.Plane{Normal: n}}
			}
		case "ELLIPSOID":
			var radii math.Vec3
			if radii, err = parseVec3(tokens, 1); err == nil {
				p.figure = geom.Figure{Ellipsoid: &geom.Ellipsoid{Radii: radii}}
			}
		case "BOX":
			var sizes math.Vec3
			if sizes, err = parseVec3(tokens, 1); err == nil {
				p.figure = geom.Figure{Box: &geom.Box{HalfSizes: sizes}}
			}
		case "TRIANGLE":
			var coords [9]float32
			for i := range coords {
				if coords[i], err = parseFloat(tokens, i+1); err != nil {
					break
				}
			}
			if err == nil {
				a := math.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}
				b := math.Vec3{X: coords[3], Y: coords[4], Z: coords[5]}
				c := math.Vec3{X: coords[6], Y: coords[7], Z: coords[8]}
				tri := geom.NewTriangle(a, b, c)
				p.figure = geom.Figure{Triangle: &tri}
			}
		case "POSITION":
			p.position, err = parseVec3(tokens, 1)
		case "ROTATION":
			p.rotation, err = parseQuaternion(tokens, 1)
		case "COLOR":
			p.mat.Color, err = parseVec3(tokens, 1)
		case "EMISSION":
			p.mat.Emission, err = parseVec3(tokens, 1)
		case "METALLIC":
			p.mat.Kind = material.Metallic
		case "DIELECTRIC":
			p.mat.Kind = material.Dielectric
		case "IOR":
			p.mat.IOR, err = parseFloat(tokens, 1)

		default:
			// Unknown directives are ignored, matching the format's original
			// forward-compatible parser.
		}
		if err != nil {
			return nil, fmt.Errorf("sceneformat: line %d (%s): %w", lineNo, tokens[0], err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sceneformat: reading scene: %w", err)
	}
	flush()

	aspect := float32(s.Height) / float32(s.Width)
	s.Camera.TanHalfFovX = tanHalf(camFovX)
	s.Camera.TanHalfFovY = aspect * s.Camera.TanHalfFovX

	return s, nil
}

// BuildScene assembles a scenepkg.Scene from the parsed directives.
func (s *Scene) BuildScene() (*scenepkg.Scene, error) {
	return scenepkg.Build(s.Camera, s.Primitives, s.Materials, s.BackgroundColor, s.RayDepth, s.Samples)
}

func parseInt(tokens []string, i int) (int, error) {
	if i >= len(tokens) {
		return 0, fmt.Errorf("missing token %d", i)
	}
	v, err := strconv.Atoi(tokens[i])
	if err != nil {
		return 0, fmt.Errorf("parsing int %q: %w", tokens[i], err)
	}
	return v, nil
}

func parseFloat(tokens []string, i int) (float32, error) {
	if i >= len(tokens) {
		return 0, fmt.Errorf("missing token %d", i)
	}
	v, err := strconv.ParseFloat(tokens[i], 32)
	if err != nil {
		return 0, fmt.Errorf("parsing float %q: %w", tokens[i], err)
	}
	return float32(v), nil
}

func parseVec3(tokens []string, i int) (math.Vec3, error) {
	x, err := parseFloat(tokens, i)
	if err != nil {
		return math.Vec3{}, err
	}
	y, err := parseFloat(tokens, i+1)
	if err != nil {
		return math.Vec3{}, err
	}
	z, err := parseFloat(tokens, i+2)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: x, Y: y, Z: z}, nil
}

// parseQuaternion reads (x, y, z, w) with w the scalar component, the order
// the text format documents.
func parseQuaternion(tokens []string, i int) (math.Quaternion, error) {
	x, err := parseFloat(tokens, i)
	if err != nil {
		return math.Quaternion{}, err
	}
	y, err := parseFloat(tokens, i+1)
	if err != nil {
		return math.Quaternion{}, err
	}
	z, err := parseFloat(tokens, i+2)
	if err != nil {
		return math.Quaternion{}, err
	}
	w, err := parseFloat(tokens, i+3)
	if err != nil {
		return math.Quaternion{}, err
	}
	return math.Quaternion{X: x, Y: y, Z: z, W: w}, nil
}

func tanHalf(fovX float32) float32 {
	return float32(stdmath.Tan(float64(fovX) / 2))
}
