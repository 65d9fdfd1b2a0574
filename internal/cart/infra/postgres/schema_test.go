package postgres

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestOwnerColumnIsUnbounded(t *testing.T) {
	s, err := schema.Parse(&cartRow{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("OwnerUserID")
	require.NotNil(t, field)
	require.Equal(t, "text", field.TagSettings["TYPE"])
}
