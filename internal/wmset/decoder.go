package wmset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/jchantrell/wmset/internal/fftext"
	"github.com/jchantrell/wmset/internal/mesh"
	"github.com/jchantrell/wmset/internal/script"
	"github.com/jchantrell/wmset/internal/tim"
)

// ErrEntityRange reports an entity whose offset lies outside its section
var ErrEntityRange = errors.New("entity offset outside section")

// Options configures Decode
type Options struct {
	// Layout selects the codec per section; nil uses DefaultLayout
	Layout *Layout

	// Workers bounds per-entity parallelism; zero uses runtime.NumCPU
	Workers int

	// Text decodes dialog and location names; nil uses fftext.DefaultDecoder
	Text *fftext.Decoder
}

func (o Options) withDefaults() Options {
	if o.Layout == nil {
		o.Layout = DefaultLayout()
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Text == nil {
		o.Text = fftext.DefaultDecoder
	}
	return o
}

// decoder holds the state of one Decode call
type decoder struct {
	ctx  context.Context
	opts Options
	c    *Container
	w    *Worldmap
}

// Decode parses a whole worldmap container. Only an input shorter than
// MinContainerSize or a cancelled context fails the decode; every other
// problem drops the affected entity and is recorded in Diagnostics.
func Decode(ctx context.Context, data []byte, opts Options) (*Worldmap, error) {
	c, err := ParseContainer(data)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		ctx:  ctx,
		opts: opts.withDefaults(),
		c:    c,
		w: &Worldmap{
			Container:   c,
			Diagnostics: append([]Diagnostic(nil), c.Diagnostics...),
		},
	}

	for i := 0; i < SectionCount; i++ {
		if err := d.section(i); err != nil {
			return nil, fmt.Errorf("decoding section %d: %w", i, err)
		}
	}

	slog.Debug("Decoded worldmap",
		"models", len(d.w.Models),
		"textures", len(d.w.Textures),
		"dialogs", len(d.w.Dialogs),
		"locations", len(d.w.LocationNames),
		"drawPoints", len(d.w.DrawPoints),
		"scripts", len(d.w.Scripts),
		"diagnostics", len(d.w.Diagnostics))

	return d.w, nil
}

func (d *decoder) section(i int) error {
	data := d.c.Section(i)
	kind := d.opts.Layout.Kind(i)

	switch kind {
	case KindDialogText:
		entries, err := d.text(i, data)
		if err != nil {
			return err
		}
		d.w.Dialogs = entries
	case KindLocationNames:
		entries, err := d.text(i, data)
		if err != nil {
			return err
		}
		d.w.LocationNames = entries
	case KindGeometry:
		return d.models(i, data)
	case KindTextures:
		return d.textures(i, data)
	case KindDrawPoints:
		d.w.DrawPoints = DecodeDrawPoints(data)
		if len(data) < drawPointHeaderSize {
			d.diag(i, -1, fmt.Sprintf("section holds %d bytes, shorter than the %d byte header", len(data), drawPointHeaderSize))
		}
	case KindScript:
		return d.scripts(i, data)
	}

	return nil
}

func (d *decoder) text(section int, data []byte) ([]TextEntry, error) {
	ranges := d.entityRanges(section, ReadSentinelOffsets(data), len(data))

	results, err := parallelMap(d.ctx, d.opts.Workers, len(ranges), func(i int) (fftext.Text, error) {
		return d.opts.Text.Decode(slice(data, ranges[i])), nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]TextEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, TextEntry{Index: r.index, Text: r.value})
	}
	return entries, nil
}

func (d *decoder) models(section int, data []byte) error {
	offsets, skipped := ReadPaddedOffsets(data)
	for _, s := range skipped {
		d.diag(section, s.Position/4, fmt.Sprintf("skipped offset %d with nonzero padding %d", s.Offset, s.Padding))
	}
	ranges := d.entityRanges(section, offsets, len(data))

	results, err := parallelMap(d.ctx, d.opts.Workers, len(ranges), func(i int) (mesh.Model, error) {
		if ranges[i].Len() == 0 {
			return mesh.Model{}, fmt.Errorf("%w: offset %d, section size %d", ErrEntityRange, offsets[i], len(data))
		}
		return mesh.Decode(slice(data, ranges[i]))
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.err != nil {
			d.fail(section, r.index, "model", r.err)
			continue
		}
		d.w.Models = append(d.w.Models, Model{Index: r.index, Model: r.value})
	}
	return nil
}

func (d *decoder) textures(section int, data []byte) error {
	offsets := ReadSentinelOffsets(data)
	ranges := d.entityRanges(section, offsets, len(data))

	results, err := parallelMap(d.ctx, d.opts.Workers, len(ranges), func(i int) (*tim.Image, error) {
		if ranges[i].Len() == 0 {
			return nil, fmt.Errorf("%w: offset %d, section size %d", ErrEntityRange, offsets[i], len(data))
		}
		return tim.Decode(slice(data, ranges[i]))
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.err != nil {
			d.fail(section, r.index, "texture", r.err)
			continue
		}
		if r.value.Short() {
			d.diag(section, r.index, fmt.Sprintf("pixel payload holds %d bytes, %dx%d raster needs %d",
				len(r.value.Pixels), r.value.Width(), r.value.Height(), r.value.PayloadSize()))
		}
		d.w.Textures = append(d.w.Textures, Texture{Index: r.index, Image: r.value})
	}
	return nil
}

func (d *decoder) scripts(section int, data []byte) error {
	offsets := ReadSentinelOffsets(data)

	results, err := parallelMap(d.ctx, d.opts.Workers, len(offsets), func(i int) (script.Entity, error) {
		return script.DecodeEntity(data, int(offsets[i]))
	})
	if err != nil {
		return err
	}

	entities := make([]script.Entity, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			d.diag(section, r.index, r.err.Error())
		}
		if n := r.value.Unknown(); n > 0 {
			d.diag(section, r.index, fmt.Sprintf("%d unrecognized opcodes", n))
		}
		entities = append(entities, r.value)
	}

	d.w.Scripts = append(d.w.Scripts, ScriptSection{Section: section, Entities: entities})
	return nil
}

// entityRanges derives per-entity ranges and reports the clamped ones
func (d *decoder) entityRanges(section int, offsets []uint32, size int) []Range {
	ranges := Ranges(offsets, size)
	for i, r := range ranges {
		if r.Clamped {
			d.diag(section, i, fmt.Sprintf("entity range clamped to [%d, %d)", r.Start, r.End))
		}
	}
	return ranges
}

func (d *decoder) fail(section, entity int, what string, err error) {
	slog.Error("Skipping "+what, "section", section, "index", entity, "error", err)
	d.w.Diagnostics = append(d.w.Diagnostics, Diagnostic{Section: section, Entity: entity, Message: err.Error()})
}

func (d *decoder) diag(section, entity int, msg string) {
	slog.Warn("Decode diagnostic", "section", section, "index", entity, "message", msg)
	d.w.Diagnostics = append(d.w.Diagnostics, Diagnostic{Section: section, Entity: entity, Message: msg})
}
