package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCatalogItem(t *testing.T) {
	duration := 40

	valid := CatalogItem{
		Name:            "Java 8 (New)",
		URL:             "https://example.com/catalog/view/java-8",
		TestType:        "K",
		DurationMinutes: &duration,
		Category:        "Knowledge & Skills",
		TextBlob:        "Java 8 (New) Knowledge & Skills java coding",
	}

	t.Run("valid item", func(t *testing.T) {
		item := valid
		assert.NoError(t, ValidateCatalogItem(&item))
	})

	t.Run("nil item", func(t *testing.T) {
		err := ValidateCatalogItem(nil)
		assert.ErrorIs(t, err, ErrInvalidCatalogItem)
	})

	t.Run("empty name", func(t *testing.T) {
		item := valid
		item.Name = ""
		err := ValidateCatalogItem(&item)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("empty text blob", func(t *testing.T) {
		item := valid
		item.TextBlob = ""
		err := ValidateCatalogItem(&item)
		assert.ErrorIs(t, err, ErrEmptyTextBlob)
	})

	t.Run("multi letter test type", func(t *testing.T) {
		item := valid
		item.TestType = "KP"
		err := ValidateCatalogItem(&item)
		assert.ErrorIs(t, err, ErrInvalidTestType)
	})

	t.Run("missing test type is valid", func(t *testing.T) {
		item := valid
		item.TestType = ""
		assert.NoError(t, ValidateCatalogItem(&item))
	})

	t.Run("missing duration is valid", func(t *testing.T) {
		item := valid
		item.DurationMinutes = nil
		assert.NoError(t, ValidateCatalogItem(&item))
	})

	t.Run("negative duration", func(t *testing.T) {
		item := valid
		neg := -5
		item.DurationMinutes = &neg
		err := ValidateCatalogItem(&item)
		assert.ErrorIs(t, err, ErrNegativeDuration)
	})
}
