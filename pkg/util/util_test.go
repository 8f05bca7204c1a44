package util_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/routemaster-go/routemaster/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPtr(t *testing.T) {
	p := util.Ptr(10)
	require.NotNil(t, p)
	assert.Equal(t, 10, *p)
	assert.Equal(t, 10, util.Deref(p, 3))
	assert.Equal(t, 3, util.Deref[int](nil, 3))
}

func TestShortID(t *testing.T) {
	id := uuid.MustParse("936da01f-9abd-4d9d-80c7-02af85c822a8")
	short := util.ShortID(id)

	decoded, err := base58.Decode(short)
	require.NoError(t, err)
	assert.Equal(t, id[:], decoded)

	assert.NotEqual(t, util.NewShortID(), util.NewShortID())
}

func TestStructToJSON(t *testing.T) {
	type payload struct {
		Callback string `json:"callback"`
	}

	assert.Equal(t, `{"callback":"https://sub.test/cb?a=1&b=2"}`, util.StructToJSON(payload{Callback: "https://sub.test/cb?a=1&b=2"}))

	raw := []byte(util.StructToJSON(payload{Callback: "x"}))
	assert.Equal(t, `{"callback":"x"}`, string(raw))

	assert.Equal(t, "{\n  \"callback\": \"x\"\n}", util.PrettyJSON(raw))
	assert.Equal(t, "not json", util.PrettyJSON([]byte("not json")))
}
