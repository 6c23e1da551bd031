package suppliers

import (
	"context"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/postgres/pgtest"
	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_Validate(t *testing.T) {
	s, err := Input{ProductRef: " pc-1 ", Name: "Distribuidora Norte", Price: "12000.5"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "pc-1", s.ProductRef)
	assert.Equal(t, "12000.50", s.Price.StringFixed(2))

	_, err = Input{Price: "1.234"}.Validate()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestRepo_CRUD(t *testing.T) {
	repo := &Repo{DB: pgtest.Start(t)}
	ctx := context.Background()

	s, err := Input{ProductRef: "pc-1", Name: "Norte", Price: "100"}.Validate()
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &s))

	s.Name = "Norte SA"
	require.NoError(t, repo.Update(ctx, &s))
	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Norte SA", got.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), ErrNotFound)
}
