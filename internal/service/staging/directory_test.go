package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockflow/internal/domain/models"
)

func TestContextBranchesExcludesOwnBranch(t *testing.T) {
	branches := testContext().Branches()
	assert.Equal(t, []models.Branch{{ID: "B1", Name: "North"}, {ID: "B2", Name: "South"}}, branches)
}

func TestContextEngineersFiltersByRole(t *testing.T) {
	engineers := testContext().Engineers()
	require.Len(t, engineers, 2)
	assert.Equal(t, "E1", engineers[0].ID)
	assert.Equal(t, "E2", engineers[1].ID)
}

func TestContextResolve(t *testing.T) {
	env := testContext()

	dest, err := env.Resolve(models.DestinationBranch, "B2")
	require.NoError(t, err)
	assert.Equal(t, models.Destination{Kind: models.DestinationBranch, ID: "B2", Name: "South"}, dest)

	_, err = env.Resolve(models.DestinationEngineer, "B2")
	assert.ErrorIs(t, err, ErrUnknownDestination)
}
