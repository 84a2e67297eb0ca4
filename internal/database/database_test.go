package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jchantrell/wmset/internal/fftext"
	"github.com/jchantrell/wmset/internal/mesh"
	"github.com/jchantrell/wmset/internal/script"
	"github.com/jchantrell/wmset/internal/tim"
	"github.com/jchantrell/wmset/internal/wmset"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(DefaultDatabaseOptions(filepath.Join(t.TempDir(), "sub", "wmset.db")))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := NewDDLManager(db).CreateSchema(context.Background(), nil); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	return db
}

func sampleWorldmap() *wmset.Worldmap {
	return &wmset.Worldmap{
		Container: &wmset.Container{
			Size:    wmset.MinContainerSize,
			Offsets: make([]uint32, wmset.SectionCount),
			Ranges:  make([]wmset.Range, wmset.SectionCount),
		},
		Models: []wmset.Model{{
			Index: 2,
			Model: mesh.Model{
				TexturePage: 4,
				Vertices:    []mesh.Vertex{{X: 1, Y: 2, Z: 3}},
				Triangles:   []mesh.Triangle{{}},
			},
		}},
		Textures: []wmset.Texture{{
			Index: 2,
			Image: &tim.Image{Depth: tim.Depth8, HasPalette: true, PaletteCount: 1, Rect: tim.Rect{Width: 8, Height: 4}},
		}},
		Dialogs:       []wmset.TextEntry{{Index: 0, Text: fftext.Decode([]byte{0x03, 0x30, 0x02, 0x45})}},
		LocationNames: []wmset.TextEntry{{Index: 0, Text: fftext.Decode([]byte{0x45})}},
		DrawPoints:    []wmset.DrawPoint{{X: 10, Y: 20, MagicID: 30}, {X: 1, Y: 2, MagicID: 3}},
		Scripts: []wmset.ScriptSection{{
			Section: 14,
			Entities: []script.Entity{{SubScripts: [][]script.Opcode{
				{{Code: 1, Mnemonic: "WAIT"}, {Code: 32, Mnemonic: "SHOW_TEXT", Param1: 7}},
				{{Code: -2, Mnemonic: script.Unknown}},
			}}},
		}},
		Diagnostics: []wmset.Diagnostic{{Section: 15, Entity: 1, Message: "truncated"}},
	}
}

func TestGenerateTableDDL(t *testing.T) {
	ddl, err := NewDDLManager(nil).GenerateTableDDL(schemaFor("draw_points"))
	if err != nil {
		t.Fatalf("GenerateTableDDL() error = %v", err)
	}

	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "draw_points"`,
		`"file_id" INTEGER NOT NULL`,
		`"magic_id" INTEGER NOT NULL`,
		`PRIMARY KEY ("file_id", "idx")`,
		`REFERENCES "files"("id") ON DELETE CASCADE`,
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("DDL missing %q:\n%s", want, ddl)
		}
	}

	if _, err := NewDDLManager(nil).GenerateTableDDL(&TableSchema{}); err == nil {
		t.Error("GenerateTableDDL() with empty name should fail")
	}
}

func TestInsertWorldmap(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	bi := NewBulkInserter(db, &BulkInsertOptions{BatchSize: 1})
	info := FileInfo{Path: "wmsetus.obj", Hash: "00000000deadbeef", Size: wmset.MinContainerSize}

	fileID, err := bi.InsertWorldmap(ctx, info, sampleWorldmap(), nil)
	if err != nil {
		t.Fatalf("InsertWorldmap() error = %v", err)
	}

	counts := map[string]int{
		"sections":       wmset.SectionCount,
		"models":         1,
		"textures":       1,
		"dialogs":        1,
		"location_names": 1,
		"draw_points":    2,
		"script_opcodes": 3,
		"diagnostics":    1,
	}
	for table, want := range counts {
		var got int
		if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM "`+table+`" WHERE file_id = ?`, fileID).Scan(&got); err != nil {
			t.Fatalf("counting %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}

	var text, plain string
	if err := db.QueryRow(ctx, `SELECT text, plain FROM dialogs`).Scan(&text, &plain); err != nil {
		t.Fatalf("reading dialog: %v", err)
	}
	if text != "{Squall}\nA" || plain != "\nA" {
		t.Errorf("dialog = %q / %q", text, plain)
	}

	var vertices string
	if err := db.QueryRow(ctx, `SELECT vertices FROM models WHERE idx = 2`).Scan(&vertices); err != nil {
		t.Fatalf("reading model: %v", err)
	}
	if vertices != `[{"x":1,"y":2,"z":3}]` {
		t.Errorf("vertices = %s", vertices)
	}

	var mnemonic string
	if err := db.QueryRow(ctx, `SELECT mnemonic FROM script_opcodes WHERE sub_script = 1`).Scan(&mnemonic); err != nil {
		t.Fatalf("reading opcode: %v", err)
	}
	if mnemonic != script.Unknown {
		t.Errorf("mnemonic = %q, want %q", mnemonic, script.Unknown)
	}
}

func TestInsertWorldmapReplacesSameHash(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	bi := NewBulkInserter(db, nil)
	info := FileInfo{Path: "wmsetus.obj", Hash: "abc", Size: 1}

	if _, err := bi.InsertWorldmap(ctx, info, sampleWorldmap(), nil); err != nil {
		t.Fatalf("first InsertWorldmap() error = %v", err)
	}
	if _, err := bi.InsertWorldmap(ctx, info, sampleWorldmap(), nil); err != nil {
		t.Fatalf("second InsertWorldmap() error = %v", err)
	}

	var files, points int
	db.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&files)
	db.QueryRow(ctx, `SELECT COUNT(*) FROM draw_points`).Scan(&points)
	if files != 1 || points != 2 {
		t.Errorf("files = %d, draw_points = %d, want 1 and 2", files, points)
	}

	ok, err := db.HasFile(ctx, "abc")
	if err != nil || !ok {
		t.Errorf("HasFile() = %v, %v, want true", ok, err)
	}
}

func TestListTablesAndTableInfo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	tables, err := db.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if len(tables) != len(EntitySchemas)+1 {
		t.Errorf("tables = %v", tables)
	}

	columns, err := db.TableInfo(ctx, "textures")
	if err != nil {
		t.Fatalf("TableInfo() error = %v", err)
	}
	if columns[0].Name != "file_id" || !columns[0].PrimaryKey || !columns[0].NotNull {
		t.Errorf("first column = %+v", columns[0])
	}

	if _, err := db.TableInfo(ctx, "nope"); err == nil {
		t.Error("TableInfo() on a missing table should fail")
	}
}

func TestHasFileWithoutSchema(t *testing.T) {
	db, err := NewDatabase(DefaultDatabaseOptions(filepath.Join(t.TempDir(), "empty.db")))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	defer db.Close()

	ok, err := db.HasFile(context.Background(), "abc")
	if err != nil || ok {
		t.Errorf("HasFile() = %v, %v, want false, nil", ok, err)
	}
}

func countRows(t *testing.T, db *Database, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(context.Background(), `SELECT COUNT(*) FROM "`+table+`"`).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func TestInsertWorldmapCancelledLeavesNoRows(t *testing.T) {
	db := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := 0
	bi := NewBulkInserter(db, &BulkInsertOptions{
		BatchSize: 1,
		Progress: func(table string, inserted, total int) {
			batches++
			cancel()
		},
	})

	info := FileInfo{Path: "wmsetus.obj", Hash: "abc", Size: 1}
	if _, err := bi.InsertWorldmap(ctx, info, sampleWorldmap(), nil); err == nil {
		t.Fatal("InsertWorldmap() with a cancelled context should fail")
	}
	if batches != 1 {
		t.Errorf("batches = %d, want 1", batches)
	}

	for _, table := range []string{"files", "sections", "draw_points", "script_opcodes"} {
		if got := countRows(t, db, table); got != 0 {
			t.Errorf("%s rows = %d, want 0", table, got)
		}
	}
}

func TestInsertWorldmapFailedReimportKeepsPrevious(t *testing.T) {
	db := openTestDB(t)
	info := FileInfo{Path: "wmsetus.obj", Hash: "abc", Size: 1}

	if _, err := NewBulkInserter(db, nil).InsertWorldmap(context.Background(), info, sampleWorldmap(), nil); err != nil {
		t.Fatalf("InsertWorldmap() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bi := NewBulkInserter(db, &BulkInsertOptions{
		BatchSize: 1,
		Progress:  func(string, int, int) { cancel() },
	})
	if _, err := bi.InsertWorldmap(ctx, info, sampleWorldmap(), nil); err == nil {
		t.Fatal("cancelled re-import should fail")
	}

	if got := countRows(t, db, "files"); got != 1 {
		t.Errorf("files rows = %d, want 1", got)
	}
	if got := countRows(t, db, "draw_points"); got != 2 {
		t.Errorf("draw_points rows = %d, want 2", got)
	}
}
