// Package catalog provides the static market data the engine scores against:
// the demand skill list, the role catalog, the course catalog and the
// skill-to-category lookup table. Catalogs are data, loaded from embedded
// JSON by default or from a directory so they can be updated without a rebuild.
package catalog

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/types"
)

// DefaultCategory is returned by CategoryFor when a skill has no lookup entry.
const DefaultCategory = "Other"

// File names read by Load
const (
	DemandFile     = "demand.json"
	RolesFile      = "roles.json"
	CoursesFile    = "courses.json"
	CategoriesFile = "categories.json"
)

//go:embed data/*.json
var embedded embed.FS

// Provider supplies catalogs to the engine. Implementations must be safe for
// concurrent reads and must not change the returned data between calls.
type Provider interface {
	DemandSkills() []types.DemandSkill
	Roles() []types.JobRole
	Courses() []types.CourseRecommendation
	CategoryFor(skillName string) string
	Version() string
}

// Catalog is the standard Provider implementation
type Catalog struct {
	demand     []types.DemandSkill
	roles      []types.JobRole
	courses    []types.CourseRecommendation
	categories map[string]string
	version    string
}

// LoadError represents an error reading or decoding a catalog file
type LoadError struct {
	File  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load error: %s: %v", e.File, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog embedded in the binary. It is parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = Load(sub)
	})
	return defaultCatalog, defaultErr
}

// MustDefault returns the embedded catalog, panicking if it cannot be loaded.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load embedded catalog: %v", err))
	}
	return c
}

// LoadDir loads the four catalog files from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{File: dir, Cause: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{File: dir, Cause: fmt.Errorf("not a directory")}
	}
	return Load(os.DirFS(dir))
}

// Load reads and schema-validates the catalog files from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	hash := sha256.New()

	files := []struct {
		name   string
		schema string
		dst    any
	}{
		{DemandFile, schemas.Demand, &c.demand},
		{RolesFile, schemas.Roles, &c.roles},
		{CoursesFile, schemas.Courses, &c.courses},
		{CategoriesFile, schemas.Categories, &c.categories},
	}

	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return nil, &LoadError{File: f.name, Cause: err}
		}
		if err := schemas.Validate(f.schema, data); err != nil {
			return nil, &LoadError{File: f.name, Cause: err}
		}
		if err := json.Unmarshal(data, f.dst); err != nil {
			return nil, &LoadError{File: f.name, Cause: err}
		}
		hash.Write(data)
	}

	c.categories = lowerKeys(c.categories)
	c.version = hex.EncodeToString(hash.Sum(nil))[:16]
	return c, nil
}

// New builds a catalog from in-memory tables. Intended for fixtures and tests.
func New(demand []types.DemandSkill, roles []types.JobRole, courses []types.CourseRecommendation, categories map[string]string) *Catalog {
	c := &Catalog{
		demand:     slices.Clone(demand),
		roles:      slices.Clone(roles),
		courses:    slices.Clone(courses),
		categories: lowerKeys(categories),
	}

	hash := sha256.New()
	for _, v := range []any{c.demand, c.roles, c.courses, c.categories} {
		data, _ := json.Marshal(v)
		hash.Write(data)
	}
	c.version = hex.EncodeToString(hash.Sum(nil))[:16]
	return c
}

// DemandSkills returns the demand catalog in catalog order.
func (c *Catalog) DemandSkills() []types.DemandSkill {
	return slices.Clone(c.demand)
}

// Roles returns the role catalog in catalog order.
func (c *Catalog) Roles() []types.JobRole {
	return slices.Clone(c.roles)
}

// Courses returns the course catalog in catalog order.
func (c *Catalog) Courses() []types.CourseRecommendation {
	return slices.Clone(c.courses)
}

// CategoryFor looks up a skill's category case-insensitively, defaulting to "Other".
func (c *Catalog) CategoryFor(skillName string) string {
	if category, ok := c.categories[strings.ToLower(strings.TrimSpace(skillName))]; ok {
		return category
	}
	return DefaultCategory
}

// Version identifies the catalog content.
func (c *Catalog) Version() string {
	return c.version
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}
