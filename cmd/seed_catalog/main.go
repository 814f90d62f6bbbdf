// seed_catalog genera el script SQL que carga sucursales y catálogo de productos a partir del
// CSV exportado por el punto de venta anterior.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual. El export viene en ISO-8859-1,
// separado por ';', con columnas: branch_id;branch_name;sku;product_name;price
// (branch_id vacío = producto global).
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// productNamespace hace que el ID de un producto dependa solo de su SKU (re-ejecutable).
var productNamespace = uuid.MustParse("6f1c5a0e-2b8d-4c59-9e57-3d2a8f0b7c41")

type product struct {
	id, ownerBranchID, sku, name string
	price                        decimal.Decimal
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	branches, products, err := parseCatalog(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	// Ordenar para salida estable
	var branchIDs []string
	for id := range branches {
		branchIDs = append(branchIDs, id)
	}
	sort.Strings(branchIDs)
	sort.Slice(products, func(i, j int) bool { return products[i].sku < products[j].sku })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Sucursales y catálogo de productos\n")
	out.WriteString("-- Generado desde " + filepath.Base(csvPath) + "\n\n")

	if len(branchIDs) > 0 {
		out.WriteString("-- 1. Sucursales\n")
		out.WriteString("INSERT INTO branches (id, name) VALUES\n")
		for i, id := range branchIDs {
			sep := ","
			if i == len(branchIDs)-1 {
				sep = ""
			}
			fmt.Fprintf(out, "  ('%s', '%s')%s\n", escapeSQL(id), escapeSQL(branches[id]), sep)
		}
		out.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now();\n\n")
	}

	out.WriteString("-- 2. Productos (owner_branch_id NULL = global)\n")
	for _, p := range products {
		owner := "NULL"
		if p.ownerBranchID != "" {
			owner = "'" + escapeSQL(p.ownerBranchID) + "'"
		}
		fmt.Fprintf(out, "INSERT INTO products (id, owner_branch_id, sku, name, price)\n")
		fmt.Fprintf(out, "VALUES ('%s', %s, '%s', '%s', %s)\n",
			p.id, owner, escapeSQL(p.sku), escapeSQL(p.name), p.price.StringFixed(2))
		out.WriteString("ON CONFLICT (id) DO UPDATE SET owner_branch_id = EXCLUDED.owner_branch_id, name = EXCLUDED.name, price = EXCLUDED.price, updated_at = now();\n")
	}

	fmt.Printf("Generado %s: %d sucursales, %d productos\n", outPath, len(branchIDs), len(products))
}

// parseCatalog lee el CSV ya decodificado a UTF-8. Omite la cabecera y filas sin SKU.
func parseCatalog(r io.Reader) (map[string]string, []product, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true

	branches := make(map[string]string)
	seen := make(map[string]bool)
	var products []product
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "branch_id") {
			continue
		}
		for i := range rec {
			rec[i] = norm.NFC.String(strings.TrimSpace(rec[i]))
		}
		branchID, branchName, sku, name, rawPrice := rec[0], rec[1], rec[2], rec[3], rec[4]
		if sku == "" {
			continue
		}
		if seen[sku] {
			return nil, nil, fmt.Errorf("línea %d: SKU %s repetido", line, sku)
		}
		seen[sku] = true
		price, err := decimal.NewFromString(strings.ReplaceAll(rawPrice, ",", "."))
		if err != nil || price.IsNegative() {
			return nil, nil, fmt.Errorf("línea %d: precio inválido %q", line, rawPrice)
		}
		if branchID != "" {
			if branchName == "" {
				branchName = branchID
			}
			branches[branchID] = branchName
		}
		if name == "" {
			name = sku
		}
		products = append(products, product{
			id:            uuid.NewSHA1(productNamespace, []byte(sku)).String(),
			ownerBranchID: branchID,
			sku:           sku,
			name:          name,
			price:         price,
		})
	}
	return branches, products, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
