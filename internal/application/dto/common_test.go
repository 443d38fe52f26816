package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fabrica-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		name       string
		in         dto.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"vacía usa el límite por defecto", dto.PageRequest{}, dto.DefaultPageLimit, 0},
		{"límite negativo", dto.PageRequest{Limit: -3, Offset: 10}, dto.DefaultPageLimit, 10},
		{"límite válido se respeta", dto.PageRequest{Limit: 100, Offset: 5}, 100, 5},
		{"límite excesivo se acota", dto.PageRequest{Limit: 10000}, dto.MaxPageLimit, 0},
		{"offset negativo", dto.PageRequest{Limit: 10, Offset: -1}, 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.Normalize()
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}
