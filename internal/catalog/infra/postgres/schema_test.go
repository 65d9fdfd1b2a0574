package postgres

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestPriceColumnKeepsFullPrecision(t *testing.T) {
	s, err := schema.Parse(&productRow{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Price")
	require.NotNil(t, field)
	require.Equal(t, "numeric", field.TagSettings["TYPE"], "a fixed scale would round prices on write")
}
