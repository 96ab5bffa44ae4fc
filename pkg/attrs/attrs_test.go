package attrs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "reratrack/pkg/domain"
)

func TestExtractString(t *testing.T) {
	clientID := id.ClientID(uuid.New())
	list := []any{"event", "payment_recorded", "client_id", clientID, "amount", 42, "dangling"}

	assert.Equal(t, "payment_recorded", ExtractString(list, "event"))
	assert.Equal(t, clientID.String(), ExtractString(list, "client_id"))
	assert.Empty(t, ExtractString(list, "amount"), "non-string values are ignored")
	assert.Empty(t, ExtractString(list, "missing"))
	assert.Empty(t, ExtractString(list, "dangling"), "odd trailing key has no value")
}

func TestWithout(t *testing.T) {
	list := []any{"a", 1, "b", 2, "c", 3}
	assert.Equal(t, []any{"a", 1, "c", 3}, Without(list, "b"))
	assert.Equal(t, list, Without(list))
}
