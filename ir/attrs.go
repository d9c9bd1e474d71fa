package ir

import "fmt"

// AttrMap is the per-node string-keyed attribute map the GraphML
// importer produces (spec §6). Keys include at minimum block_node_type,
// block_function, block_partition_num, block_sched_order,
// InitialCondition, UpsampleRatio, InputOps, LogicalOp, TgtDataType, and
// dialect-specific equivalents; this package does not enumerate every
// possible key, since the importer itself is out of scope.
type AttrMap map[string]string

// ErrImport is returned by node constructors when AttrMap is missing a
// required key or carries an unparseable value, per spec §7's
// "Parse / import" error kind.
type ErrImport struct {
	NodeType string
	Key      string
	Reason   string
}

func (e *ErrImport) Error() string {
	return fmt.Sprintf("import %s: attribute %q: %s", e.NodeType, e.Key, e.Reason)
}

func requireAttr(attrs AttrMap, nodeType, key string) (string, error) {
	v, ok := attrs[key]
	if !ok {
		return "", &ErrImport{nodeType, key, "required attribute missing"}
	}
	return v, nil
}

// Importer is the external collaborator named in spec §6: it parses a
// GraphML description into per-node AttrMaps. Parsing the GraphML XML
// itself is mechanical and out of scope; only this seam is specified.
type Importer interface {
	ImportNodeAttrs() ([]AttrMap, error)
}

// Exporter is the symmetric external collaborator: each node variant
// emits its full state as <data key="...">...</data> children via
// ExportAttrs, plus the structural attributes (node_id, instance_name,
// block_label, block_partition_num, block_sched_order, orig_location)
// named in spec §6.
type Exporter interface {
	ExportAttrs(n Node) (AttrMap, error)
}

// NewDelayFromAttrs constructs a Delay node from an AttrMap, parsing
// InitialCondition with the NumericValue grammar of §3. It is
// representative of how every node variant's "dialect constructor"
// parses AttrMap — the remaining variants are mechanical repetitions of
// the same pattern and are intentionally not all spelled out here, since
// enumerating every GraphML dialect key is the importer's job, not this
// package's.
func NewDelayFromAttrs(name string, attrs AttrMap) (*Delay, error) {
	lenStr, err := requireAttr(attrs, "Delay", "DelayLength")
	if err != nil {
		return nil, err
	}
	var length int
	if _, err := fmt.Sscanf(lenStr, "%d", &length); err != nil {
		return nil, &ErrImport{"Delay", "DelayLength", "not an integer"}
	}

	var initCond []NumericValue
	if icStr, ok := attrs["InitialCondition"]; ok {
		initCond, err = ParseNumericVector(icStr)
		if err != nil {
			return nil, &ErrImport{"Delay", "InitialCondition", err.Error()}
		}
	}

	return NewDelay(name, length, initCond), nil
}

// FakeImporter is a table-driven stand-in for the real GraphML reader,
// used only in tests.
type FakeImporter struct {
	Attrs []AttrMap
	Err   error
}

func (f *FakeImporter) ImportNodeAttrs() ([]AttrMap, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Attrs, nil
}
