package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EPFL-Life/life-sub001/internal/repository"
	"github.com/EPFL-Life/life-sub001/internal/service"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewLocalSet()
	associations := service.NewAssociationServiceImpl(repos.Associations, repos.Events, nil)
	events := service.NewEventServiceImpl(repos.Events, repos.Associations, nil)

	n, err := seed(ctx, associations, events)
	require.NoError(t, err)
	assert.Equal(t, len(seedAssociations)+len(seedEvents), n)

	n, err = seed(ctx, associations, events)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := events.ListByTag(ctx, "music")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
