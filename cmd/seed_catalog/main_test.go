package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestParseCatalog_Latin1YProductosGlobales(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String(
		"branch_id;branch_name;sku;product_name;price\n" +
			"suc-1;Centro;CAF-1;Café molido;12,50\n" +
			";;BOL-1;Bolsa;0.10\n")
	require.NoError(t, err)

	branches, products, err := parseCatalog(transform.NewReader(strings.NewReader(raw), charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"suc-1": "Centro"}, branches)
	require.Len(t, products, 2)
	assert.Equal(t, "Café molido", products[0].name)
	assert.Equal(t, "12.50", products[0].price.StringFixed(2))
	assert.Equal(t, "", products[1].ownerBranchID)
}

func TestParseCatalog_IDEstablePorSKU(t *testing.T) {
	in := "suc-1;Centro;X-1;Uno;1\n"
	_, a, err := parseCatalog(strings.NewReader(in))
	require.NoError(t, err)
	_, b, err := parseCatalog(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, a[0].id, b[0].id)
}

func TestParseCatalog_Errores(t *testing.T) {
	_, _, err := parseCatalog(strings.NewReader("s;S;X-1;Uno;abc\n"))
	assert.Error(t, err)

	_, _, err = parseCatalog(strings.NewReader("s;S;X-1;Uno;1\ns;S;X-1;Otro;2\n"))
	assert.Error(t, err)
}
