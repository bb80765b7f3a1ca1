package amqp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/teamspend/internal/amqp"
	"github.com/MrJamesThe3rd/teamspend/internal/budget"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "budget.alert.80", amqp.RoutingKey(budget.AlertEvent{Threshold: team.AlertFlag80}))
	assert.Equal(t, "budget.alert.100", amqp.RoutingKey(budget.AlertEvent{Threshold: team.AlertFlag100}))
}
