package envguard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleGuardian() *Guardian {
	return Define(Schema{
		Key("PORT", Int().Port().Default(3000).Describe("HTTP listen port")),
		Key("DATABASE_URL", URL().Protocols("postgres")),
		Key("db", Group(FlatSchema{
			Field("POOL_SIZE", Int().Min(1).Optional()),
			Field("TIMEOUT", Duration().Default(30*time.Second)),
		}, WithPrefix("DB_"))),
		Key("LOG_LEVEL", Enum("debug", "info").Default("info")),
	})
}

func TestIntrospect(t *testing.T) {
	fields := exampleGuardian().Introspect().Fields
	require.Len(t, fields, 5)

	assert.Equal(t, FieldDescriptor{
		Key:         "PORT",
		Type:        "integer",
		Required:    false,
		Default:     3000,
		HasDefault:  true,
		Description: "HTTP listen port",
	}, fields[0])
	assert.Equal(t, FieldDescriptor{Key: "DATABASE_URL", Type: "url", Required: true}, fields[1])
	assert.Equal(t, FieldDescriptor{Key: "DB_POOL_SIZE", Group: "db", Type: "integer"}, fields[2])
	assert.Equal(t, "DB_TIMEOUT", fields[3].Key)
	assert.Equal(t, 30*time.Second, fields[3].Default)
	assert.Equal(t, "enum(debug | info)", fields[4].Type)
}

func TestIntrospect_IgnoresEnvironment(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	assert.Equal(t, []string{"PORT", "DATABASE_URL", "DB_POOL_SIZE", "DB_TIMEOUT", "LOG_LEVEL"}, exampleGuardian().Keys())
}

func TestGenerateExample_Plain(t *testing.T) {
	got := exampleGuardian().GenerateExample(WithoutComments())
	want := "PORT=3000\nDATABASE_URL=\nDB_POOL_SIZE=\nDB_TIMEOUT=30s\nLOG_LEVEL=info\n"
	assert.Equal(t, want, got)

	got = exampleGuardian().GenerateExample(WithoutComments(), WithoutDefaults())
	want = "PORT=\nDATABASE_URL=\nDB_POOL_SIZE=\nDB_TIMEOUT=\nLOG_LEVEL=\n"
	assert.Equal(t, want, got)
}

func TestGenerateExample_Comments(t *testing.T) {
	got := exampleGuardian().GenerateExample()
	assert.Contains(t, got, "# HTTP listen port\n# type: integer, optional, default: 3000\nPORT=3000\n")
	assert.Contains(t, got, "# [db]\n# type: integer, optional\nDB_POOL_SIZE=\n")
	assert.Contains(t, got, "# type: url, required\nDATABASE_URL=\n")
	snapshotter.SnapshotT(t, got)
}

func TestGenerateExample_Empty(t *testing.T) {
	assert.Equal(t, "", Define(Schema{}).GenerateExample())
}
