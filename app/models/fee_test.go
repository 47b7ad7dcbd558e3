package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFeeIsOverdue(t *testing.T) {
	now := time.Now()
	fee := &Fee{Amount: 5000, Balance: 5000, DueDate: now.Add(-24 * time.Hour)}

	assert.True(t, fee.IsOverdue(now))
	assert.False(t, fee.IsOverdue(now.Add(-48*time.Hour)))

	fee.MarkAsPaid()
	// a paid fee is never overdue
	assert.False(t, fee.IsOverdue(now))
}

func TestFeeMarkAsPaid(t *testing.T) {
	fee := &Fee{Amount: 5000, Balance: 5000}
	assert.False(t, fee.IsFullyPaid())

	fee.MarkAsPaid()
	assert.True(t, fee.IsFullyPaid())
	assert.Zero(t, fee.Balance)
	assert.NotNil(t, fee.PaidAt)
}
