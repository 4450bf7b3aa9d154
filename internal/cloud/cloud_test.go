package cloud

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

func TestScanFilter(t *testing.T) {
	expr, names, values := scanFilter(nil)
	require.Nil(t, expr)
	require.Nil(t, names)
	require.Nil(t, values)

	expr, names, values = scanFilter(domain.Filter{"date": "21-10-2024", "Tariff (INR/kWh)": "x"})
	require.Equal(t, "#f0 = :v0 AND #f1 = :v1", aws.ToString(expr))
	require.Equal(t, map[string]string{"#f0": "Tariff (INR/kWh)", "#f1": "date"}, names)
	require.Equal(t, "21-10-2024", values[":v1"].(*types.AttributeValueMemberS).Value)
}

func TestReportKey(t *testing.T) {
	require.Equal(t, "schedules/21-10-2024/optimized_schedule.json", ReportKey("21-10-2024"))
}

func TestSavingsSummary(t *testing.T) {
	subject, msg := SavingsSummary("21-10-2024", 12.5, 9, "")
	require.Equal(t, "Luminous: schedule for 21-10-2024 saves 12.50 INR", subject)
	require.Contains(t, msg, "Hours on solar: 9 of 24")
	require.NotContains(t, msg, "Report:")
}
