package swagger

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var routerAnnotation = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)

type document struct {
	Paths map[string]map[string]json.RawMessage `json:"paths"`
}

func TestDocumentCoversAnnotatedRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	annotated := 0
	err = filepath.WalkDir(filepath.Join("..", "..", "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range routerAnnotation.FindAllStringSubmatch(string(src), -1) {
			annotated++
			route, method := m[1], strings.ToLower(m[2])
			_, ok := doc.Paths[route][method]
			assert.True(t, ok, "%s %s (%s) is not in the document", method, route, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.NotZero(t, annotated)

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, annotated, documented, "document lists routes no handler annotates")
}
