package status

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berckan/domainscout/internal/tldrules"
)

func restrictedRule() tldrules.Rule {
	return tldrules.Rule{
		Name:         "de",
		CanRegister:  true,
		Restrictions: "Local presence required",
		AveragePrice: "9,50",
	}
}

func TestAppendReasonWhileUnknown(t *testing.T) {
	rec := NewRecord("example.com", 0)

	rec.AppendReason("WHOIS data inconclusive", "WHOISCheck")
	assert.Equal(t, "WHOIS data inconclusive (WHOISCheck)", rec.Reason())

	rec.AppendReason("Inconclusive", "NamecheapCheck")
	assert.Equal(t, "WHOIS data inconclusive (WHOISCheck); Inconclusive (NamecheapCheck)", rec.Reason())
	assert.Equal(t, []string{"WHOISCheck", "NamecheapCheck"}, rec.Sources())
}

func TestAppendReasonNoOpAfterConclusive(t *testing.T) {
	rec := NewRecord("example.com", 0)
	rec.SetAvailability(Unavailable, "", "DNSCheck", "A records found (domain is registered)")

	before := rec.Reason()
	rec.AppendReason("late chatter", "WHOISCheck")
	assert.Equal(t, before, rec.Reason())
	assert.NotContains(t, rec.Sources(), "WHOISCheck")
}

func TestReasonCap(t *testing.T) {
	rec := NewRecord("example.com", 0)
	long := strings.Repeat("x", 200)
	rec.AppendReason(long, "WHOISCheck")

	reason := rec.Reason()
	assert.Len(t, []rune(reason), 140)
	assert.True(t, strings.HasSuffix(reason, "..."))
	assert.Equal(t, strings.Repeat("x", 137), reason[:137])
}

func TestReasonCapConfigurable(t *testing.T) {
	rec := NewRecord("example.com", 40)
	rec.AppendReason(strings.Repeat("y", 100), "")
	assert.Len(t, []rune(rec.Reason()), 40)
	assert.True(t, strings.HasSuffix(rec.Reason(), "..."))
}

func TestReasonCapTinyValueClamped(t *testing.T) {
	// Caps shorter than the ellipsis marker must not panic truncation.
	for _, n := range []int{1, 2, 3} {
		rec := NewRecord("example.com", n)
		rec.AppendReason(strings.Repeat("z", 50), "WHOISCheck")
		assert.Len(t, []rune(rec.Reason()), len("...")+1)
		assert.True(t, strings.HasSuffix(rec.Reason(), "..."))
	}
}

func TestSetAvailabilityCannedReasons(t *testing.T) {
	cases := []struct {
		avail  Availability
		reason string
	}{
		{Available, "Domain is available (WHOISCheck)"},
		{Premium, "Domain is premium and available (WHOISCheck)"},
		{Unavailable, "Domain is registered (WHOISCheck)"},
	}
	for _, tc := range cases {
		rec := NewRecord("example.com", 0)
		rec.SetAvailability(tc.avail, "", "WHOISCheck", "")
		assert.Equal(t, tc.avail, rec.Availability())
		assert.Equal(t, tc.reason, rec.Reason())
	}
}

func TestSetAvailabilityOverwritesTrail(t *testing.T) {
	rec := NewRecord("example.com", 0)
	rec.AppendReason("WHOIS data inconclusive", "WHOISCheck")
	rec.SetAvailability(Available, "", "NamecheapCheck", "")

	assert.Equal(t, "Domain is available (NamecheapCheck)", rec.Reason())
	assert.NotContains(t, rec.Reason(), "inconclusive")
}

func TestSetAvailabilityRestrictionSuffix(t *testing.T) {
	rec := NewRecord("ab.de", 0)
	rec.SetTLDInfo(restrictedRule())
	require.True(t, rec.Restricted())

	rec.SetAvailability(Available, "", "WHOISCheck", "")
	assert.Equal(t, "Domain is available (WHOISCheck); Local presence required", rec.Reason())
}

func TestSetAvailabilityRejectsUnknown(t *testing.T) {
	rec := NewRecord("example.com", 0)
	rec.SetAvailability(Available, "", "WHOISCheck", "")
	rec.SetAvailability(Unknown, "", "GandiCheck", "")
	assert.Equal(t, Available, rec.Availability())
}

func TestPremiumNeverDowngraded(t *testing.T) {
	rec := NewRecord("example.com", 0)
	rec.SetAvailability(Premium, "1200", "NamecheapCheck", "")
	rec.SetAvailability(Available, "10", "GandiCheck", "")

	assert.Equal(t, Premium, rec.Availability())
	assert.Equal(t, "1200", rec.Price())
}

func TestAvailableUpgradesToPremium(t *testing.T) {
	rec := NewRecord("example.com", 0)
	rec.SetAvailability(Available, "", "WHOISCheck", "")
	rec.SetAvailability(Premium, "1200", "GandiCheck", "")

	assert.Equal(t, Premium, rec.Availability())
	assert.Equal(t, "1200", rec.Price())
	assert.Equal(t, "Domain is premium and available (GandiCheck)", rec.Reason())
}

func TestPriceRetention(t *testing.T) {
	rec := NewRecord("ab.de", 0)
	rec.SetTLDInfo(restrictedRule())
	assert.Equal(t, "9.50", rec.Price(), "comma price normalized to dot")

	rec.SetAvailability(Available, "N/A", "WHOISCheck", "")
	assert.Equal(t, "9.50", rec.Price(), "sentinel does not clobber a real price")

	rec.SetAvailability(Premium, "42", "GandiCheck", "")
	assert.Equal(t, "42", rec.Price())
}

func TestSortClassAndPrice(t *testing.T) {
	unrestricted := NewRecord("a.com", 0)
	unrestricted.SetAvailability(Available, "5", "x", "")
	assert.Equal(t, 1, unrestricted.SortClass())

	restricted := NewRecord("a.de", 0)
	restricted.SetTLDInfo(restrictedRule())
	restricted.SetAvailability(Available, "", "x", "")
	assert.Equal(t, 2, restricted.SortClass())

	premium := NewRecord("b.com", 0)
	premium.SetAvailability(Premium, "", "x", "")
	assert.Equal(t, 3, premium.SortClass())

	taken := NewRecord("c.com", 0)
	taken.SetAvailability(Unavailable, "", "x", "")
	assert.Equal(t, 4, taken.SortClass())

	unknown := NewRecord("d.com", 0)
	assert.Equal(t, 5, unknown.SortClass())

	assert.Equal(t, 5.0, unrestricted.PriceValue())
	assert.True(t, math.IsInf(unknown.PriceValue(), 1), "N/A sorts last")
}

func TestConcurrentMutation(t *testing.T) {
	rec := NewRecord("example.com", 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rec.AppendReason("Inconclusive", fmt.Sprintf("src%d", n))
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, len([]rune(rec.Reason())), 140)
	assert.Equal(t, Unknown, rec.Availability())
}
