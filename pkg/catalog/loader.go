// Package catalog provides lazy-loaded, read-only access to the phone dataset.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/phonedex/pkg/models"
)

//go:embed phones.yaml
var phonesRawData []byte

// catalogFile is the top-level structure of a YAML dataset. A bare sequence of
// phones (the JSON export format) is accepted as well.
type catalogFile struct {
	Phones []models.Phone `yaml:"phones"`
}

// Catalog provides lazy-loaded access to the phone collection. The collection
// is parsed at most once per Catalog and shared by every caller afterwards.
type Catalog struct {
	once   sync.Once
	read   func() ([]byte, error)
	phones []models.Phone
	index  map[string]int
	err    error
}

// NewCatalog creates a Catalog over the embedded dataset.
func NewCatalog() *Catalog {
	return &Catalog{read: func() ([]byte, error) { return phonesRawData, nil }}
}

// NewFileCatalog creates a Catalog that reads path on first access. The file
// may be YAML or JSON.
func NewFileCatalog(path string) *Catalog {
	return &Catalog{read: func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
		return data, nil
	}}
}

// NewStaticCatalog creates a Catalog over an already-resident collection.
// The slice is copied; validation runs on first access like any other source.
func NewStaticCatalog(phones []models.Phone) *Catalog {
	cp := make([]models.Phone, len(phones))
	copy(cp, phones)
	return &Catalog{phones: cp}
}

// Phones returns the full collection in dataset order. The returned slice is
// a copy; the Phone records themselves must be treated as read-only.
func (c *Catalog) Phones() ([]models.Phone, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]models.Phone, len(c.phones))
	copy(cp, c.phones)
	return cp, nil
}

// FindByID returns the phone with the given id. A missing id is reported by
// the boolean, never by the error.
func (c *Catalog) FindByID(id string) (models.Phone, bool, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return models.Phone{}, false, c.err
	}
	i, ok := c.index[id]
	if !ok {
		return models.Phone{}, false, nil
	}
	return c.phones[i], true, nil
}

// Len returns the number of phones, loading the dataset if needed.
func (c *Catalog) Len() (int, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return 0, c.err
	}
	return len(c.phones), nil
}

// load parses the dataset and builds the id index.
func (c *Catalog) load() {
	if c.read != nil {
		data, err := c.read()
		if err != nil {
			c.err = err
			return
		}
		phones, err := parse(data)
		if err != nil {
			c.err = err
			return
		}
		c.phones = phones
	}

	index, err := buildIndex(c.phones)
	if err != nil {
		c.err = err
		c.phones = nil
		return
	}
	c.index = index
}

// parse decodes either a {phones: [...]} document or a bare sequence.
func parse(data []byte) ([]models.Phone, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("catalog: parse dataset: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("catalog: empty dataset")
	}

	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var phones []models.Phone
		if err := doc.Decode(&phones); err != nil {
			return nil, fmt.Errorf("catalog: decode phones: %w", err)
		}
		return phones, nil
	}

	var f catalogFile
	if err := doc.Decode(&f); err != nil {
		return nil, fmt.Errorf("catalog: decode phones: %w", err)
	}
	return f.Phones, nil
}

// buildIndex validates the collection and maps each id to its position.
func buildIndex(phones []models.Phone) (map[string]int, error) {
	index := make(map[string]int, len(phones))
	for i := range phones {
		p := &phones[i]
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("catalog: phone %d: %w", i, err)
		}
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate phone id %q", p.ID)
		}
		index[p.ID] = i
	}
	return index, nil
}

func validate(p *models.Phone) error {
	if p.ID == "" {
		return errors.New("missing id")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%s: %w: %q", p.ID, models.ErrUnknownCategory, p.Category)
	}
	for _, cur := range models.Currencies {
		if p.Prices.In(cur) < 0 {
			return fmt.Errorf("%s: negative %s price", p.ID, cur)
		}
	}
	if p.Ratings.UserCount < 0 {
		return fmt.Errorf("%s: negative rating user count", p.ID)
	}
	return nil
}
