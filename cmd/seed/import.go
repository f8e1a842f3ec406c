package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/wms-api/internal/application/dto"
)

var requiredColumns = []string{"code", "name", "category"}

// parseProducts lee el CSV por nombre de columna. code, name y category son obligatorias;
// location, unit, quantity y min_quantity son opcionales. Columnas desconocidas (p. ej.
// low_stock del export) se ignoran.
func parseProducts(r io.Reader, latin1 bool) ([]dto.CreateProductRequest, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv vacío")
		}
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("falta la columna %q", name)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		in := dto.CreateProductRequest{
			Code:     field(rec, "code"),
			Name:     field(rec, "name"),
			Category: field(rec, "category"),
			Location: field(rec, "location"),
			Unit:     field(rec, "unit"),
		}
		if in.Code == "" {
			continue
		}
		if s := field(rec, "quantity"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("línea %d: quantity inválida %q", line, s)
			}
			in.Quantity = n
		}
		if s := field(rec, "min_quantity"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("línea %d: min_quantity inválida %q", line, s)
			}
			in.MinQuantity = &n
		}
		out = append(out, in)
	}
	return out, nil
}
