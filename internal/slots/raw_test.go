package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponseShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "bare array", body: `[{"start":"2026-10-20T18:00:00Z"},{"start":"2026-10-20T19:00:00Z"}]`, want: 2},
		{name: "gettimeslot wrapper", body: `{"gettimeslot":[{"start":"x"}]}`, want: 1},
		{name: "getTimeslot wrapper", body: `{"getTimeslot":[{"start":"x"},{"start":"y"}]}`, want: 2},
		{name: "timeslots wrapper", body: `{"timeslots":[{}]}`, want: 1},
		{name: "data wrapper", body: `{"data":["18:00"]}`, want: 1},
		{name: "unknown wrapper", body: `{"slots":[{"start":"x"}]}`, want: 0},
		{name: "wrapper not array", body: `{"gettimeslot":{"start":"x"}}`, want: 0},
		{name: "null", body: `null`, want: 0},
		{name: "string", body: `"nope"`, want: 0},
		{name: "empty body", body: ``, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeResponse([]byte(tc.body))
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestDecodeResponsePrefersFirstWrapperKey(t *testing.T) {
	got, err := DecodeResponse([]byte(`{"data":[{},{},{}],"gettimeslot":[{"id":"a"}]}`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].id.String())
}

func TestDecodeResponseRejectsInvalidJSON(t *testing.T) {
	_, err := DecodeResponse([]byte(`[{"start":`))
	assert.Error(t, err)
}

func TestRawSlotKinds(t *testing.T) {
	got, err := DecodeResponse([]byte(`[{"id":7,"start":1760983200000,"duration":"30","status":"available"},"2026-10-20T18:00:00Z",42,null]`))
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, RawObject, got[0].Kind)
	assert.Equal(t, "7", got[0].id.String())
	assert.Equal(t, float64(30), got[0].duration.number())
	assert.Equal(t, "available", got[0].status.String())

	assert.Equal(t, RawText, got[1].Kind)
	assert.Equal(t, "2026-10-20T18:00:00Z", got[1].Text)

	assert.Equal(t, RawOther, got[2].Kind)
	assert.Equal(t, RawOther, got[3].Kind)
	assert.JSONEq(t, `42`, string(got[2].Raw))
}

func TestRawValueTruthiness(t *testing.T) {
	assert.False(t, decodeValue(nil).truthy())
	assert.False(t, decodeValue([]byte(`""`)).truthy())
	assert.False(t, decodeValue([]byte(`0`)).truthy())
	assert.False(t, decodeValue([]byte(`null`)).truthy())
	assert.True(t, decodeValue([]byte(`"x"`)).truthy())
	assert.True(t, decodeValue([]byte(`12`)).truthy())
	assert.Equal(t, float64(0), decodeValue([]byte(`"abc"`)).number())
}
