package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	worldDoc   = "../../examples/world/world.xml"
	worldVocab = "../../examples/world/vocab.yaml"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "arbor version ")
}

func TestTree_Outline(t *testing.T) {
	out, err := run(t, "<a><b x=\"1\">hi</b></a>", "tree", "--format", "xml", "-o", "outline", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "a  1:1\n└── b x=\"1\" \"hi\"  1:4\n", out)
}

func TestTree_Mermaid(t *testing.T) {
	out, err := run(t, "", "tree", "--format", "", "-o", "mermaid", worldDoc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `n0(("world"))`)
}

func TestBuild_JSON(t *testing.T) {
	out, err := run(t, "", "build", "--format", "", "--vocab", worldVocab, "-o", "json", worldDoc)
	require.NoError(t, err)

	var root struct {
		Tag      string `json:"tag"`
		Children []struct {
			Tag      string `json:"tag"`
			Children []struct {
				Attrs map[string]string `json:"attrs"`
			} `json:"children"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, "world", root.Tag)
	require.Len(t, root.Children, 2)
	people := root.Children[1]
	assert.Equal(t, "people", people.Tag)
	require.Len(t, people.Children, 2)
	assert.Equal(t, map[string]string{"name": "Ada", "max_hp": "12"}, people.Children[0].Attrs)
	assert.Equal(t, "10", people.Children[1].Attrs["max_hp"])
}

func TestBuild_Dump(t *testing.T) {
	out, err := run(t, "", "build", "--format", "", "--vocab", worldVocab, "-o", "dump", worldDoc)
	require.NoError(t, err)
	assert.Contains(t, out, "vocab.Element")
	assert.Contains(t, out, `Tag: (string) (len=6) "weapon"`)
}

func TestBuild_Failure(t *testing.T) {
	_, err := run(t, `<world><dragon/></world>`, "build", "--format", "xml", "--vocab", worldVocab, "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dragon")
}

func TestBuild_RequiresVocab(t *testing.T) {
	_, err := run(t, `<world/>`, "build", "--format", "xml", "--vocab", "")
	assert.ErrorContains(t, err, "--vocab is required")
}

func TestConvert_XMLToYAMLAndBack(t *testing.T) {
	yamlOut, err := run(t, "", "convert", "--format", "", "--to", "", worldDoc)
	require.NoError(t, err)
	assert.Contains(t, yamlOut, "world:")
	assert.Contains(t, yamlOut, "'@name': Ada")

	xmlOut, err := run(t, yamlOut, "convert", "--format", "yaml", "--to", "")
	require.NoError(t, err)
	assert.Contains(t, xmlOut, `<person name="Ada" max-hp="12">`)
}

func TestVocab_Raw(t *testing.T) {
	out, err := run(t, "", "vocab", "--raw", worldVocab)
	require.NoError(t, err)
	assert.Contains(t, out, "# world")
	assert.Contains(t, out, "## people")
}

func TestMarkupFormat_Unknown(t *testing.T) {
	_, err := run(t, "<a/>", "tree", "--format", "json")
	assert.ErrorContains(t, err, "unknown markup format")
}
