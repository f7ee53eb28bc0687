package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viniciusalmeida93/ant-camp/models"
)

func TestFilterWods(t *testing.T) {
	wods := []*models.Wod{{ID: 1}, {ID: 2}, {ID: 3}}

	t.Run("empty filter keeps everything", func(t *testing.T) {
		out := filterWods([]*models.Wod{{ID: 1}, {ID: 2}}, nil)
		require.Len(t, out, 2)
	})

	t.Run("keeps only listed ids", func(t *testing.T) {
		out := filterWods(wods, []int{1, 3})
		require.Len(t, out, 2)
		require.Equal(t, 1, out[0].ID)
		require.Equal(t, 3, out[1].ID)
	})

	t.Run("unknown ids filter everything out", func(t *testing.T) {
		out := filterWods([]*models.Wod{{ID: 1}}, []int{99})
		require.Empty(t, out)
	})
}

func TestFilterCategories(t *testing.T) {
	categories := []*models.Category{{ID: 1}, {ID: 2}, {ID: 3}}

	out := filterCategories(categories, []int{2})

	require.Len(t, out, 1)
	require.Equal(t, 2, out[0].ID)
}

func TestTailFrom(t *testing.T) {
	heats := []*models.Heat{{ID: 1}, {ID: 2}, {ID: 3}}

	tail := tailFrom(heats, 2)
	require.Len(t, tail, 2)
	require.Equal(t, 2, tail[0].ID)

	require.Nil(t, tailFrom(heats, 99))
}
