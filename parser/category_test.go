package parser

import (
	"testing"

	"trialbalance/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammar_ExtractName(t *testing.T) {
	g := NewGrammar("")
	assert.Equal(t, DefaultCategoryMarker, g.Marker())

	tests := []struct {
		in   string
		want string
	}{
		{"КЛАСС 1 Основные расходы", "Основные расходы"},
		{"  класс 12   Rent  ", "Rent"},
		{"Класс 3 Прочие", "Прочие"},
		{"КЛАСС2 Налоги", "Налоги"},
		{"КЛАСС 1", ""},
		{"КЛАСС Основные", ""},
		{"КЛАССИФИКАЦИЯ 1 X", ""},
		{"Итого по классу 1", ""},
		{"100234", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, g.ExtractName(tt.in), "ExtractName(%q)", tt.in)
	}
}

func TestGrammar_CustomMarker(t *testing.T) {
	g := NewGrammar("Class")
	assert.Equal(t, "Rent", g.ExtractName("CLASS 4 Rent"))
	assert.Equal(t, "", g.ExtractName("КЛАСС 4 Rent"))
}

func TestDiscoverCategories(t *testing.T) {
	wb := NewWorkbook("S", [][]string{
		{"КЛАСС 9 В шапке"},
		{"Bank"},
		{"КЛАСС 1 Rent"},
		{"100234", "1", "1", "1", "1", "1", "1"},
		{"класс 2 rent"},
		{"КЛАСС 3 Основные расходы"},
		{"КЛАСС 4 Rent"},
	})

	names := DiscoverCategories(wb, NewGrammar(DefaultCategoryMarker))
	assert.Equal(t, []string{"В шапке", "Rent", "Основные расходы"}, names)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry([]models.Category{{ID: 1, Name: "Rent"}, {ID: 2, Name: "Основные расходы"}})

	c, ok := reg.Lookup("RENT")
	require.True(t, ok)
	assert.Equal(t, uint(1), c.ID)

	c, ok = reg.Lookup("основные расходы")
	require.True(t, ok)
	assert.Equal(t, uint(2), c.ID)

	_, ok = reg.Lookup("Taxes")
	assert.False(t, ok)
}
