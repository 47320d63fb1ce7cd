// Package migration runs and tracks schema migrations for the sql store.
//
// Migrations register themselves from database/migrations:
//
//	func init() {
//	    migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
//	}
//
// Each Run applies every pending migration as one batch. Rollback undoes the
// most recent batch in reverse order.
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"gorm.io/gorm"
)

// ErrNoMigrations is returned by Run when nothing is registered.
var ErrNoMigrations = errors.New("no migrations registered")

// Migration changes the schema and can undo the change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is a row of the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "catalog_migrations" }

type named struct {
	name string
	m    Migration
}

var registry []named

// Register adds m under name. Names start with a timestamp and are applied
// in name order, whatever order they were registered in.
func Register(name string, m Migration) {
	registry = append(registry, named{name: name, m: m})
	sort.SliceStable(registry, func(i, j int) bool { return registry[i].name < registry[j].name })
}

func lookup(name string) (Migration, bool) {
	for _, n := range registry {
		if n.name == name {
			return n.m, true
		}
	}
	return nil, false
}

// Entry is the state of one registered migration.
type Entry struct {
	Name  string
	Batch int // 0 while pending
	RunAt time.Time
}

// Pending reports whether the migration has not been applied.
func (e Entry) Pending() bool { return e.Batch == 0 }

// Runner applies migrations to one database. Progress lines go to Out.
type Runner struct {
	db  *gorm.DB
	Out io.Writer
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db, Out: os.Stdout}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: tracking table: %w", err)
	}
	return nil
}

// Entries lists every registered migration in name order with its state.
func (r *Runner) Entries() ([]Entry, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read applied: %w", err)
	}
	applied := make(map[string]record, len(rows))
	for _, row := range rows {
		applied[row.Name] = row
	}

	entries := make([]Entry, 0, len(registry))
	for _, n := range registry {
		e := Entry{Name: n.name}
		if row, ok := applied[n.name]; ok {
			e.Batch, e.RunAt = row.Batch, row.RunAt
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *Runner) lastBatch() (int, error) {
	var last struct{ Max int }
	err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return last.Max, nil
}

// Run applies every pending migration as a new batch.
func (r *Runner) Run() error {
	if len(registry) == 0 {
		return ErrNoMigrations
	}
	entries, err := r.Entries()
	if err != nil {
		return err
	}
	last, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch := last + 1

	ran := 0
	for _, e := range entries {
		if !e.Pending() {
			continue
		}
		m, _ := lookup(e.Name)
		if err := m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		if err := r.db.Create(&record{Name: e.Name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", e.Name, err)
		}
		fmt.Fprintf(r.Out, "  ✅ Migrated     %s (batch %d)\n", e.Name, batch)
		ran++
	}

	if ran == 0 {
		fmt.Fprintln(r.Out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migration: applied", "count", ran, "batch", batch)
	return nil
}

// Rollback undoes the most recent batch, newest migration first.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	last, err := r.lastBatch()
	if err != nil {
		return err
	}
	if last == 0 {
		fmt.Fprintln(r.Out, "Nothing to roll back.")
		return nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", last).Order("name DESC").Find(&rows).Error; err != nil {
		return fmt.Errorf("migration: read batch %d: %w", last, err)
	}

	for _, row := range rows {
		m, ok := lookup(row.Name)
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.Delete(&record{}, row.ID).Error; err != nil {
			return fmt.Errorf("migration: forget %s: %w", row.Name, err)
		}
		fmt.Fprintf(r.Out, "  ↩️  Rolled back  %s (batch %d)\n", row.Name, last)
	}
	logger.Info("migration: rolled back", "count", len(rows), "batch", last)
	return nil
}

// Status prints a table of every registered migration.
func (r *Runner) Status() error {
	entries, err := r.Entries()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(r.Out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tSTATUS\tBATCH\tRUN AT")
	for _, e := range entries {
		if e.Pending() {
			fmt.Fprintf(w, "%s\tPending\t-\t-\n", e.Name)
			continue
		}
		fmt.Fprintf(w, "%s\tRan\t%d\t%s\n", e.Name, e.Batch, e.RunAt.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}
