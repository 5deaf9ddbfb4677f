package notebook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
)

const notebookFixture = `{
  "cells": [
    {"cell_type": "markdown", "source": "# Intro\nAbout pandas."},
    {"cell_type": "code", "source": ["import pandas as pd\n", "df = pd.DataFrame()"]},
    {"cell_type": "code", "source": "   "}
  ],
  "metadata": {"kernelspec": {"language": "python"}}
}`

func TestExtract_Notebook(t *testing.T) {
	extractor := New()

	result, err := extractor.Extract(context.Background(), "analysis_demo.ipynb", []byte(notebookFixture))
	require.NoError(t, err)

	assert.Contains(t, result.Text, "About pandas.")
	assert.Contains(t, result.Text, "import pandas as pd\ndf = pd.DataFrame()")
	assert.Equal(t, "analysis demo", result.Title)
	assert.Equal(t, 3, result.Metadata["cell_count"])
	// The blank code cell is skipped before counting.
	assert.Equal(t, 1, result.Metadata["code_cells"])
	assert.Equal(t, "python", result.Metadata["language"])
}

func TestExtract_InvalidJSON(t *testing.T) {
	extractor := New()

	_, err := extractor.Extract(context.Background(), "bad.ipynb", []byte("{not json"))
	assert.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestCellSource(t *testing.T) {
	assert.Equal(t, "abc", cellSource([]byte(`"abc"`)))
	assert.Equal(t, "ab", cellSource([]byte(`["a","b"]`)))
	assert.Equal(t, "", cellSource(nil))
	assert.Equal(t, "", cellSource([]byte(`42`)))
}
