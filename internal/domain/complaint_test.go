package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	for _, status := range []ComplaintStatus{ComplaintStatusSubmitted, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed} {
		require.True(t, ValidStatus(status), string(status))
	}
	require.False(t, ValidStatus("archived"))
	require.False(t, ValidStatus(""))
	// Values are case sensitive.
	require.False(t, ValidStatus("Submitted"))
}

func TestValidPriority(t *testing.T) {
	for _, priority := range []ComplaintPriority{ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh} {
		require.True(t, ValidPriority(priority), string(priority))
	}
	require.False(t, ValidPriority("urgent"))
	require.False(t, ValidPriority(""))
}

func TestValidCategory(t *testing.T) {
	for _, category := range []ComplaintCategory{CategoryTechnical, CategoryService, CategoryBilling, CategoryProduct, CategoryAccount, CategoryPrivacy, CategoryOther} {
		require.True(t, ValidCategory(category), string(category))
	}
	require.False(t, ValidCategory("technical"))
	require.False(t, ValidCategory(""))
}
