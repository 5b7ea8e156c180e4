// internal/repository/postgres/store_test.go
package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/javajoker/brewhouse-backend/internal/repository"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), repository.ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)), repository.ErrDuplicate)

	boom := errors.New("connection reset")
	err := translate(boom)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestCatalogColumnsExcludeLedgerFields(t *testing.T) {
	for _, column := range catalogColumns {
		assert.NotContains(t, []string{"quantity", "in_stock", "average_rating", "ratings_count"}, column)
	}
}

var _ repository.Store = (*Store)(nil)
