// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/ifc-engine/internal/ifc"
	"github.com/pdiddy/ifc-engine/pkg/types"
)

const (
	defaultElementBatch   = 1000
	defaultSpatialBatch   = 500
	defaultProgressStride = 100
	maxSearchTextLen      = 10000
)

// skipTypes excludes spatial structure, relationship, and geometry-support
// entities from element extraction even when they look rooted.
var skipTypes = map[string]bool{
	"IFCPROJECT":                        true,
	"IFCSITE":                           true,
	"IFCBUILDING":                       true,
	"IFCBUILDINGSTOREY":                 true,
	"IFCSPACE":                          true,
	"IFCOWNERHISTORY":                   true,
	"IFCGEOMETRICREPRESENTATIONCONTEXT": true,
	"IFCRELDEFINESBYPROPERTIES":         true,
	"IFCRELASSOCIATESMATERIAL":          true,
	"IFCRELCONTAINEDINSPATIALSTRUCTURE": true,
	"IFCRELAGGREGATES":                  true,
	"IFCPROPERTYSET":                    true,
	"IFCPROPERTYSINGLEVALUE":            true,
	"IFCMATERIAL":                       true,
	"IFCMATERIALLAYERSET":               true,
	"IFCMATERIALLAYER":                  true,
	"IFCCARTESIANPOINT":                 true,
	"IFCDIRECTION":                      true,
	"IFCAXIS2PLACEMENT3D":               true,
	"IFCLOCALPLACEMENT":                 true,
	"IFCSHAPEREPRESENTATION":            true,
	"IFCPRODUCTDEFINITIONSHAPE":         true,
}

// Sink is the persistence boundary consuming ordered record batches.
// Implementations live in internal/store; tests supply fakes. A sink error
// is fatal to the run: the engine performs no retries and no rollback.
type Sink interface {
	InsertModel(ctx context.Context, model types.ModelRecord) error
	InsertSpatialNodes(ctx context.Context, nodes []types.SpatialNode) error
	InsertElements(ctx context.Context, rows []types.ElementRecord) error
	UpdateModelParsed(ctx context.Context, modelID string, elementCount int) error
}

// RunSummary holds counts from one extraction run.
type RunSummary struct {
	ModelID      string
	SpatialNodes int
	Elements     int
	Rows         int
	Failed       int
	Duration     time.Duration
}

// HasFailures reports whether any elements were dropped.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// Engine runs the extraction pipeline over one model graph: storey map,
// spatial tree, then one pass over all physical elements. Strictly
// sequential; the only blocking operations are sink flushes.
type Engine struct {
	graph *ifc.Graph
	sink  Sink
	log   *zap.SugaredLogger
	cfg   types.ParseConfig
}

// New builds an engine, applying batch-size defaults for zero config values.
func New(g *ifc.Graph, sink Sink, log *zap.SugaredLogger, cfg types.ParseConfig) *Engine {
	if cfg.ElementBatchSize <= 0 {
		cfg.ElementBatchSize = defaultElementBatch
	}
	if cfg.SpatialBatchSize <= 0 {
		cfg.SpatialBatchSize = defaultSpatialBatch
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = defaultProgressStride
	}
	return &Engine{graph: g, sink: sink, log: log, cfg: cfg}
}

// Run executes the pipeline for model, writing progress to w. The model
// record is inserted with its initial "parsing" status first and updated
// to "done" only after the final element batch lands. Per-element and
// per-relation failures are logged and contained; a sink failure aborts
// the run immediately, leaving already-flushed batches persisted.
func (e *Engine) Run(ctx context.Context, model types.ModelRecord, w io.Writer) (RunSummary, error) {
	start := time.Now()
	summary := RunSummary{ModelID: model.ID}

	if err := e.sink.InsertModel(ctx, model); err != nil {
		return summary, fmt.Errorf("inserting model record: %w", err)
	}

	storeys := buildStoreyMap(e.graph, e.log)
	fmt.Fprintf(w, "mapped %d elements to storeys\n", len(storeys))

	nodes := buildSpatialTree(e.graph)
	for i := range nodes {
		nodes[i].ModelID = model.ID
	}
	for i := 0; i < len(nodes); i += e.cfg.SpatialBatchSize {
		end := min(i+e.cfg.SpatialBatchSize, len(nodes))
		if err := e.sink.InsertSpatialNodes(ctx, nodes[i:end]); err != nil {
			return summary, fmt.Errorf("inserting spatial nodes: %w", err)
		}
	}
	summary.SpatialNodes = len(nodes)
	fmt.Fprintf(w, "inserted %d spatial nodes\n", len(nodes))

	elements := e.products()
	total := len(elements)
	summary.Elements = total
	fmt.Fprintf(w, "processing %d elements\n", total)

	var rows []types.ElementRecord
	for i, el := range elements {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rec, err := e.assembleRow(el, storeys)
		if err != nil {
			e.log.Warnw("element dropped",
				"express_id", el.ID(), "ifc_type", el.Type(), "error", err)
			summary.Failed++
		} else {
			rec.ModelID = model.ID
			rows = append(rows, rec)
		}

		if (i+1)%e.cfg.ProgressInterval == 0 || i == total-1 {
			pct := int(math.Round(float64(i+1) / float64(total) * 100))
			fmt.Fprintf(w, "  [%d%%] processed %d/%d elements, %d rows ready\n",
				pct, i+1, total, len(rows))
		}

		if len(rows) >= e.cfg.ElementBatchSize {
			if err := e.sink.InsertElements(ctx, rows); err != nil {
				return summary, fmt.Errorf("inserting element batch: %w", err)
			}
			fmt.Fprintf(w, "  -> inserted batch of %d rows\n", len(rows))
			summary.Rows += len(rows)
			rows = nil
		}
	}

	if len(rows) > 0 {
		if err := e.sink.InsertElements(ctx, rows); err != nil {
			return summary, fmt.Errorf("inserting final element batch: %w", err)
		}
		fmt.Fprintf(w, "  -> inserted final batch of %d rows\n", len(rows))
		summary.Rows += len(rows)
	}

	if err := e.sink.UpdateModelParsed(ctx, model.ID, total); err != nil {
		return summary, fmt.Errorf("updating model status: %w", err)
	}

	summary.Duration = time.Since(start)
	fmt.Fprintf(w, "done: %d elements, %d rows in %s\n",
		total, summary.Rows, summary.Duration.Round(time.Millisecond))
	return summary, nil
}

// products returns the physical elements to extract, in graph order.
// The heuristic mirrors "product types with geometry": a rooted GUID in
// the first slot, enough attributes to carry placement/representation,
// and a type outside the skip set.
func (e *Engine) products() []*ifc.Entity {
	var out []*ifc.Entity
	for _, ent := range e.graph.Entities() {
		if isProduct(ent) {
			out = append(out, ent)
		}
	}
	return out
}

func isProduct(e *ifc.Entity) bool {
	if skipTypes[e.Type()] || e.NumArgs() < 7 {
		return false
	}
	_, rooted := e.Arg(0).(string)
	return rooted
}

// assembleRow builds one ElementRecord. Retrieval failures for property or
// quantity sets are logged and leave that mapping partial or empty; the
// element proceeds with whatever was retrieved. Any panic out of the
// loosely-typed graph is contained as a per-element failure so the
// remaining elements are unaffected.
func (e *Engine) assembleRow(el *ifc.Entity, storeys map[int64]string) (rec types.ElementRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("assembling record: %v", r)
		}
	}()

	psets, perr := e.graph.PropertySets(el)
	if perr != nil {
		e.log.Warnw("property set retrieval failed",
			"express_id", el.ID(), "error", perr)
	}
	qsets, qerr := e.graph.QuantitySets(el)
	if qerr != nil {
		e.log.Warnw("quantity set retrieval failed",
			"express_id", el.ID(), "error", qerr)
	}

	d := collectDimensions(psets, qsets)

	rec = types.ElementRecord{
		ExpressID:       el.ID(),
		GlobalID:        el.AttrString("GlobalId"),
		IfcType:         el.Type(),
		Name:            el.AttrString("Name"),
		Description:     el.AttrString("Description"),
		Volume:          round6(d.Values[Volume]),
		Area:            round6(d.Values[Area]),
		Height:          round6(d.Values[Height]),
		Length:          round6(d.Values[Length]),
		Width:           round6(d.Values[Width]),
		Perimeter:       round6(d.Values[Perimeter]),
		Weight:          round6(d.Values[Weight]),
		FloorName:       storeys[el.ID()],
		Materials:       resolveMaterials(e.graph, el),
		Classifications: resolveClassifications(e.graph, el),
		ConcreteClass:   d.ConcreteClass,
		PropertySets:    psets,
		QuantitySets:    qsets,
	}
	rec.SearchText = buildSearchText(rec)
	return rec, nil
}

// buildSearchText concatenates the record's searchable segments: type,
// name, description, floor, concrete class, materials, classifications,
// then each property set's name and "key=value" entries. Quantity sets are
// excluded. Empty segments are dropped, the rest joined by single spaces,
// and the result truncated to maxSearchTextLen.
func buildSearchText(rec types.ElementRecord) string {
	parts := []string{rec.IfcType, rec.Name, rec.Description, rec.FloorName, rec.ConcreteClass}
	parts = append(parts, rec.Materials...)
	parts = append(parts, rec.Classifications...)

	for _, set := range rec.PropertySets {
		parts = append(parts, set.Name)
		for _, p := range set.Entries {
			parts = append(parts, p.Key+"="+formatValue(p.Value))
		}
	}

	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return truncate(b.String(), maxSearchTextLen)
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
