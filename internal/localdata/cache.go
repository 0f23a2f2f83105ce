// Package localdata keeps a local copy of recipes and dictionary data so
// the CLI can browse previously fetched content without a network
// connection. The cache is a small sqlite database under the user's cache
// directory.
package localdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"cooknet-client/internal/types"
)

// Well-known dictionary names.
const (
	DictIngredients    = "ingredients"
	DictUnits          = "units"
	DictCategoryTypes  = "category_types"
	DictCategoryValues = "category_values"
)

type recipeRow struct {
	ID      int64  `gorm:"primaryKey"`
	Name    string `gorm:"index"`
	Status  string
	Payload []byte
	SavedAt time.Time
}

func (recipeRow) TableName() string { return "recipes" }

type dictRow struct {
	Name    string `gorm:"primaryKey"`
	Payload []byte
	SavedAt time.Time
}

func (dictRow) TableName() string { return "dictionaries" }

// Cache is a read-through store of platform data. It is safe for
// concurrent use.
type Cache struct {
	db *gorm.DB
}

// Open creates or opens the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if err := db.AutoMigrate(&recipeRow{}, &dictRow{}); err != nil {
		return nil, fmt.Errorf("migrate cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRecipes upserts the given recipes into the cache.
func (c *Cache) SaveRecipes(recipes []types.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	rows := make([]recipeRow, 0, len(recipes))
	for _, r := range recipes {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode recipe %d: %w", r.ID, err)
		}
		rows = append(rows, recipeRow{
			ID:      r.ID,
			Name:    r.Name,
			Status:  string(r.Status),
			Payload: payload,
			SavedAt: time.Now().UTC(),
		})
	}
	err := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("save recipes: %w", err)
	}
	return nil
}

// Recipe returns a cached recipe by id. The second return value is false
// when the recipe is not cached.
func (c *Cache) Recipe(id int64) (*types.Recipe, bool, error) {
	var row recipeRow
	err := c.db.First(&row, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load recipe %d: %w", id, err)
	}
	var r types.Recipe
	if err := json.Unmarshal(row.Payload, &r); err != nil {
		return nil, false, fmt.Errorf("decode cached recipe %d: %w", id, err)
	}
	return &r, true, nil
}

// Recipes returns all cached recipes ordered by name.
func (c *Cache) Recipes() ([]types.Recipe, error) {
	return c.queryRecipes(c.db.Order("name"))
}

// SearchRecipes returns cached recipes whose name contains term,
// case-insensitively. An empty term returns everything.
func (c *Cache) SearchRecipes(term string) ([]types.Recipe, error) {
	tx := c.db.Order("name")
	if term != "" {
		tx = tx.Where("lower(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	return c.queryRecipes(tx)
}

func (c *Cache) queryRecipes(tx *gorm.DB) ([]types.Recipe, error) {
	var rows []recipeRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cached recipes: %w", err)
	}
	out := make([]types.Recipe, 0, len(rows))
	for _, row := range rows {
		var r types.Recipe
		if err := json.Unmarshal(row.Payload, &r); err != nil {
			return nil, fmt.Errorf("decode cached recipe %d: %w", row.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// SaveDictionary stores a named dictionary payload, replacing any
// previous copy.
func (c *Cache) SaveDictionary(name string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode dictionary %q: %w", name, err)
	}
	err = c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&dictRow{Name: name, Payload: payload, SavedAt: time.Now().UTC()}).Error
	if err != nil {
		return fmt.Errorf("save dictionary %q: %w", name, err)
	}
	return nil
}

// LoadDictionary decodes a named dictionary into out. The return value is
// false when the dictionary has never been cached.
func (c *Cache) LoadDictionary(name string, out any) (bool, error) {
	var row dictRow
	err := c.db.First(&row, "name = ?", name).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load dictionary %q: %w", name, err)
	}
	if err := json.Unmarshal(row.Payload, out); err != nil {
		return false, fmt.Errorf("decode dictionary %q: %w", name, err)
	}
	return true, nil
}

// Purge drops all cached content.
func (c *Cache) Purge() error {
	if err := c.db.Where("1 = 1").Delete(&recipeRow{}).Error; err != nil {
		return fmt.Errorf("purge recipes: %w", err)
	}
	if err := c.db.Where("1 = 1").Delete(&dictRow{}).Error; err != nil {
		return fmt.Errorf("purge dictionaries: %w", err)
	}
	return nil
}
