package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(ExchangeRequestsTotal.WithLabelValues("validate", "error"))

	ObserveRequest("validate", errors.New("bad bundle"), time.Now())

	assert.Equal(t, before+1, testutil.ToFloat64(ExchangeRequestsTotal.WithLabelValues("validate", "error")))
}

func TestObserveEntities(t *testing.T) {
	created := ExchangeEntitiesTotal.WithLabelValues("units", OutcomeCreated)
	failed := ExchangeEntitiesTotal.WithLabelValues("cocktails", OutcomeFailed)
	imported := ExchangeEntitiesTotal.WithLabelValues("cocktails", OutcomeImported)
	createdBefore, failedBefore, importedBefore := testutil.ToFloat64(created), testutil.ToFloat64(failed), testutil.ToFloat64(imported)

	ObserveEntities(
		map[models.EntityKind]int{models.KindUnits: 2},
		map[models.EntityKind]int{},
		3, 0,
		map[string]int{"cocktails": 1},
	)

	assert.Equal(t, createdBefore+2, testutil.ToFloat64(created))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	assert.Equal(t, importedBefore+3, testutil.ToFloat64(imported))
}
