package surveil

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// graphKey identifies which map a persisted graph was built from. A blob
// whose key doesn't match the map currently being loaded is stale and must
// be rebuilt rather than trusted.
type graphKey struct {
	Cols, Rows int
	PixelToCM  float64
}

// graphBlob is the gob-serializable mirror of a ReducedGraph. ReducedGraph
// itself keeps its node map and scale factor unexported, so the codec
// copies them into plain exported fields rather than reaching into package
// internals from a serialization format that might outlive this code.
type graphBlob struct {
	Key   graphKey
	Nodes []ReducedNode
}

// SaveGraph persists m to path, keyed to grid so a later LoadGraph call can
// detect a stale cache.
func SaveGraph(path string, grid *OccupancyGrid, m *ReducedGraph) error {
	blob := graphBlob{
		Key: graphKey{Cols: grid.Cols(), Rows: grid.Rows(), PixelToCM: grid.PixelToCM()},
	}
	for _, idx := range m.Indices() {
		blob.Nodes = append(blob.Nodes, *m.Node(idx))
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(blob); err != nil {
		return &GraphError{Err: fmt.Errorf("encoding graph: %w", err)}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &GraphError{Err: fmt.Errorf("writing graph cache: %w", err)}
	}
	return nil
}

// LoadGraph reads a previously saved graph from path, rejecting it if its
// key doesn't match grid's dimensions and scale.
func LoadGraph(path string, grid *OccupancyGrid) (*ReducedGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &GraphError{Err: fmt.Errorf("reading graph cache: %w", err)}
	}

	var blob graphBlob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&blob); err != nil {
		return nil, &GraphError{Err: fmt.Errorf("decoding graph cache: %w", err)}
	}

	want := graphKey{Cols: grid.Cols(), Rows: grid.Rows(), PixelToCM: grid.PixelToCM()}
	if blob.Key != want {
		return nil, &GraphError{Err: fmt.Errorf("cached graph key %+v does not match map %+v", blob.Key, want)}
	}

	m := &ReducedGraph{nodes: make(map[int]*ReducedNode, len(blob.Nodes)), pixelToCM: grid.PixelToCM()}
	for i := range blob.Nodes {
		n := blob.Nodes[i]
		m.nodes[n.Index] = &n
	}
	return m, nil
}
