package structbind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `toml:"city"`
	Zip  string `toml:"zip,omitempty"`
}

type person struct {
	Name    string   `toml:"name"`
	Age     int      `toml:"age"`
	Tags    []string `toml:"tags"`
	Address address  `toml:"address"`
	ignored string
	Secret  string `toml:"-"`
}

func TestUnmarshalBasicStruct(t *testing.T) {
	var p person
	err := Unmarshal([]byte(`
name = "Ada"
age = 30
tags = ["admin", "staff"]

[address]
city = "London"
`), &p)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, 30, p.Age)
	assert.Equal(t, []string{"admin", "staff"}, p.Tags)
	assert.Equal(t, "London", p.Address.City)
	assert.Empty(t, p.Address.Zip)
}

func TestMarshalBasicStruct(t *testing.T) {
	p := person{
		Name:    "Grace",
		Age:     40,
		Tags:    []string{"lead"},
		Address: address{City: "Boston", Zip: "02108"},
		Secret:  "do-not-emit",
	}
	out, err := Marshal(&p)
	require.NoError(t, err)

	var got person
	require.NoError(t, Unmarshal(out, &got))
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Age, got.Age)
	assert.Equal(t, p.Tags, got.Tags)
	assert.Equal(t, p.Address, got.Address)
	assert.NotContains(t, string(out), "do-not-emit")
}

func TestMarshalSkipsUnexportedField(t *testing.T) {
	p := person{Name: "X", ignored: "hidden"}
	out, err := Marshal(&p)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hidden")
}

func TestUnmarshalFieldNameFallback(t *testing.T) {
	type loose struct {
		FirstName string
		lastName  string
	}
	var v loose
	err := Unmarshal([]byte(`firstname = "Sam"`), &v)
	require.NoError(t, err)
	assert.Equal(t, "Sam", v.FirstName)
	assert.Empty(t, v.lastName)
}

type embedded struct {
	Inner struct {
		Value int `toml:"value"`
	} `toml:"-"`
	AnonBase
}

type AnonBase struct {
	Base string `toml:"base"`
}

func TestUnmarshalAnonymousFieldPromotion(t *testing.T) {
	var e embedded
	err := Unmarshal([]byte(`base = "root"`), &e)
	require.NoError(t, err)
	assert.Equal(t, "root", e.Base)
}

func TestDatetimeRoundTripsThroughTimeTime(t *testing.T) {
	type withTime struct {
		Created time.Time `toml:"created"`
	}
	var v withTime
	err := Unmarshal([]byte(`created = 1979-05-27T07:32:00Z`), &v)
	require.NoError(t, err)
	assert.Equal(t, 1979, v.Created.Year())
	assert.Equal(t, time.Month(5), v.Created.Month())

	out, err := Marshal(&v)
	require.NoError(t, err)

	var roundTripped withTime
	require.NoError(t, Unmarshal(out, &roundTripped))
	assert.True(t, v.Created.Equal(roundTripped.Created))
}

func TestByteSliceRoundTripsThroughIntegerArray(t *testing.T) {
	type withBytes struct {
		Payload []byte `toml:"payload"`
	}
	v := withBytes{Payload: []byte("hello world")}
	out, err := Marshal(&v)
	require.NoError(t, err)

	var got withBytes
	require.NoError(t, Unmarshal(out, &got))
	assert.Equal(t, v.Payload, got.Payload)
}

func TestOmitemptySkipsZeroValue(t *testing.T) {
	out, err := Marshal(&address{City: "Paris"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "zip")
}

func TestMapWithStringKeysSortsOnEncode(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	out, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\nb = 2\nc = 3\n", string(out))

	got := make(map[string]int)
	require.NoError(t, Unmarshal(out, &got))
	assert.Equal(t, m, got)
}

func TestIntegerOverflowTruncatesByDefault(t *testing.T) {
	type narrow struct {
		Small int8 `toml:"small"`
	}
	var v narrow
	err := Unmarshal([]byte(`small = 1000`), &v)
	require.NoError(t, err)
	assert.Equal(t, int8(-24), v.Small)
}

func TestIntegerOverflowRejectedUnderStrictOverflow(t *testing.T) {
	type narrow struct {
		Small int8 `toml:"small"`
	}
	var v narrow
	err := Unmarshal([]byte(`small = 1000`), &v, StrictOverflow())
	require.Error(t, err)
}

func TestUnmarshalRequiresNonNilPointer(t *testing.T) {
	var v person
	err := Unmarshal([]byte(`name = "x"`), v)
	require.Error(t, err)
}

func TestUnmarshalWrongTypeIsReported(t *testing.T) {
	type wantsInt struct {
		N int `toml:"n"`
	}
	var v wantsInt
	err := Unmarshal([]byte(`n = "not a number"`), &v)
	require.Error(t, err)
}
