// Package objreader loads a triangle soup from Wavefront OBJ text, the
// minimal input format the builder packages need: vertex positions and
// faces resolved against a single active material. Normal and UV lines
// are parsed and face references to them are range-checked, but the
// triangles carry only positions (with flat face normals) and the
// material id. It borrows its parsing shape from a production scene
// importer but drops everything that isn't geometry (cameras,
// instances, material libraries beyond a name-to-id table).
package objreader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lattice-rt/bvhcore/internal/log"
	"github.com/lattice-rt/bvhcore/pkg/geom"
)

type reader struct {
	logger log.Logger

	vertices []face3
	normals  []face3
	uvs      [][2]float32

	matNameToID    map[string]int32
	curMaterial    int32
	nextMaterialID int32

	triangles []geom.Triangle
}

type face3 = [3]float32

// Load parses OBJ text from r into a flat triangle slice. Faces with
// more than three vertices are fan-triangulated around their first
// vertex.
func Load(r io.Reader) ([]geom.Triangle, error) {
	rd := &reader{
		matNameToID: make(map[string]int32),
		curMaterial: -1,
	}
	rd.logger = log.New("objreader")

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || tokens[0] == "#" {
			continue
		}
		if err := rd.dispatch(tokens); err != nil {
			return nil, fmt.Errorf("objreader: line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objreader: scan: %w", err)
	}

	rd.logger.Debugf("parsed %d triangles from %d vertices", len(rd.triangles), len(rd.vertices))
	return rd.triangles, nil
}

func (rd *reader) dispatch(tokens []string) error {
	switch tokens[0] {
	case "v":
		v, err := parseVec3(tokens)
		if err != nil {
			return err
		}
		rd.vertices = append(rd.vertices, v)
	case "vn":
		v, err := parseVec3(tokens)
		if err != nil {
			return err
		}
		rd.normals = append(rd.normals, v)
	case "vt":
		uv, err := parseVec2(tokens)
		if err != nil {
			return err
		}
		rd.uvs = append(rd.uvs, uv)
	case "usemtl":
		if len(tokens) != 2 {
			return fmt.Errorf("'usemtl' expects 1 argument, got %d", len(tokens)-1)
		}
		id, ok := rd.matNameToID[tokens[1]]
		if !ok {
			id = rd.nextMaterialID
			rd.matNameToID[tokens[1]] = id
			rd.nextMaterialID++
		}
		rd.curMaterial = id
	case "f":
		return rd.parseFace(tokens[1:])
	}
	return nil
}

// parseFace fan-triangulates around its first vertex: (v0,v1,v2),
// (v0,v2,v3), ... — correct for the convex polygons OBJ faces are.
func (rd *reader) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("'f' needs at least 3 vertex arguments, got %d", len(args))
	}
	positions := make([]face3, len(args))
	for i, arg := range args {
		p, _, _, err := rd.resolveFaceVertex(arg)
		if err != nil {
			return fmt.Errorf("face argument %d: %w", i, err)
		}
		positions[i] = p
	}

	material := rd.curMaterial
	if material < 0 {
		material = 0
	}
	for i := 1; i < len(positions)-1; i++ {
		rd.triangles = append(rd.triangles, geom.NewTriangle(positions[0], positions[i], positions[i+1], material))
	}
	return nil
}

func (rd *reader) resolveFaceVertex(arg string) (pos, normal face3, uv [2]float32, err error) {
	parts := strings.Split(arg, "/")
	if parts[0] == "" {
		return pos, normal, uv, fmt.Errorf("missing vertex index")
	}

	vIdx, err := resolveIndex(parts[0], len(rd.vertices))
	if err != nil {
		return pos, normal, uv, fmt.Errorf("vertex index: %w", err)
	}
	pos = rd.vertices[vIdx]

	if len(parts) > 1 && parts[1] != "" {
		uvIdx, err := resolveIndex(parts[1], len(rd.uvs))
		if err != nil {
			return pos, normal, uv, fmt.Errorf("uv index: %w", err)
		}
		uv = rd.uvs[uvIdx]
	}
	if len(parts) > 2 && parts[2] != "" {
		nIdx, err := resolveIndex(parts[2], len(rd.normals))
		if err != nil {
			return pos, normal, uv, fmt.Errorf("normal index: %w", err)
		}
		normal = rd.normals[nIdx]
	}
	return pos, normal, uv, nil
}

// resolveIndex converts a 1-based (or negative, relative-to-end) OBJ
// index token into a 0-based slice offset.
func resolveIndex(token string, listLen int) (int, error) {
	v, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		return 0, err
	}
	var idx int
	if v < 0 {
		idx = listLen + int(v)
	} else {
		idx = int(v) - 1
	}
	if idx < 0 || idx >= listLen {
		return 0, fmt.Errorf("index %d out of range [0,%d)", v, listLen)
	}
	return idx, nil
}

func parseVec3(tokens []string) (face3, error) {
	if len(tokens) < 4 {
		return face3{}, fmt.Errorf("expected 3 components, got %d", len(tokens)-1)
	}
	var v face3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return face3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseVec2(tokens []string) ([2]float32, error) {
	if len(tokens) < 3 {
		return [2]float32{}, fmt.Errorf("expected 2 components, got %d", len(tokens)-1)
	}
	var v [2]float32
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return [2]float32{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}
