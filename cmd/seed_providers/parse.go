package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type providerRow struct {
	line int
	req  dto.ProviderRequest
}

// columnas aceptadas, ya normalizadas con headerKey.
var headerAliases = map[string]string{
	"nombre":       "name",
	"proveedor":    "name",
	"contacto":     "contact",
	"telefono":     "phone",
	"celular":      "phone",
	"email":        "email",
	"correo":       "email",
	"departamento": "region",
	"region":       "region",
	"municipio":    "municipality",
}

// parseProviders decodifica el CSV (UTF-8 o ISO-8859-1) y arma un request por fila con nombre.
// El separador puede ser coma o punto y coma (Excel en español usa ';').
func parseProviders(raw []byte) ([]providerRow, error) {
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(src)
	r.Comma = detectComma(raw)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv vacío")
		}
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if field, ok := headerAliases[headerKey(h)]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("encabezado: falta la columna nombre")
	}

	var out []providerRow
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(field string) *string {
			i, ok := cols[field]
			if !ok || i >= len(rec) {
				return nil
			}
			v := strings.TrimSpace(rec[i])
			if v == "" {
				return nil
			}
			return &v
		}
		name := get("name")
		if name == nil {
			continue
		}
		out = append(out, providerRow{line: line, req: dto.ProviderRequest{
			Name:         *name,
			ContactName:  get("contact"),
			Phone:        get("phone"),
			Email:        get("email"),
			Region:       get("region"),
			Municipality: get("municipality"),
		}})
	}
	return out, nil
}

func detectComma(raw []byte) rune {
	first, _, _ := bytes.Cut(raw, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

// headerKey minúsculas sin tildes ni espacios: "Teléfono " -> "telefono".
func headerKey(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.TrimPrefix(h, "\ufeff"))
	if err != nil {
		s = h
	}
	return strings.ToLower(strings.TrimSpace(s))
}
