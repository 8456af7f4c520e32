package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProduct_Purchasable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		product Product
		want    bool
	}{
		{"published and active", Product{Published: true}, true},
		{"unpublished", Product{Published: false}, false},
		{"soft deleted", Product{Published: true, DeletedAt: &now}, false},
		{"soft deleted and unpublished", Product{Published: false, DeletedAt: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.Purchasable())
		})
	}
}
