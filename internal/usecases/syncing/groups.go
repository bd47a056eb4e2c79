package syncing

import (
	"strings"
	"time"

	"github.com/vfg2006/budget-hunter/internal/domain"
)

func splitByPlatform(accounts []*domain.Account) (rixbeeAccounts, discoveryAccounts []domain.Account) {
	for _, acc := range accounts {
		if acc == nil {
			continue
		}

		switch acc.Platform {
		case domain.PlatformRixbee:
			rixbeeAccounts = append(rixbeeAccounts, *acc)
		case domain.PlatformDiscovery:
			discoveryAccounts = append(discoveryAccounts, *acc)
		}
	}
	return rixbeeAccounts, discoveryAccounts
}

// groupByAgent agrupa as contas que compartilham a mesma credencial, na ordem de aparição
func groupByAgent(accounts []domain.Account) [][]domain.Account {
	order := make([]domain.Agent, 0)
	groups := make(map[domain.Agent][]domain.Account)

	for _, acc := range accounts {
		if _, ok := groups[acc.Agent]; !ok {
			order = append(order, acc.Agent)
		}
		groups[acc.Agent] = append(groups[acc.Agent], acc)
	}

	out := make([][]domain.Account, 0, len(order))
	for _, agent := range order {
		out = append(out, groups[agent])
	}
	return out
}

// groupByToken agrupa as contas da Discovery por segredo armazenado
func groupByToken(accounts []domain.Account, tokens map[string]string) [][]domain.Account {
	order := make([]string, 0)
	groups := make(map[string][]domain.Account)

	for _, acc := range accounts {
		token := tokens[acc.AccountID]
		if _, ok := groups[token]; !ok {
			order = append(order, token)
		}
		groups[token] = append(groups[token], acc)
	}

	out := make([][]domain.Account, 0, len(order))
	for _, token := range order {
		out = append(out, groups[token])
	}
	return out
}

func accountIDs(accounts []domain.Account) []string {
	ids := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		ids = append(ids, acc.AccountID)
	}
	return ids
}

func joinIDs(accounts []domain.Account) string {
	return strings.Join(accountIDs(accounts), ", ")
}

// campaignRange vai do início da campanha até ontem, limitado ao fim da campanha
func campaignRange(acc *domain.Account, yesterday time.Time) (domain.DateRange, bool) {
	if acc == nil || acc.StartDate == nil {
		return domain.DateRange{}, false
	}

	end := yesterday
	if acc.EndDate != nil && acc.EndDate.Before(end) {
		end = *acc.EndDate
	}

	dr, err := domain.NewDateRange(*acc.StartDate, end)
	if err != nil {
		return domain.DateRange{}, false
	}
	return dr, true
}

// missingRanges agrupa os dias sem linha gravada em intervalos contíguos
func missingRanges(dr domain.DateRange, existing map[string]struct{}) []domain.DateRange {
	ranges := make([]domain.DateRange, 0)

	var current *domain.DateRange
	for _, d := range dr.Dates() {
		if _, ok := existing[d.Format(time.DateOnly)]; ok {
			current = nil
			continue
		}

		if current == nil {
			ranges = append(ranges, domain.DateRange{Start: d, End: d})
			current = &ranges[len(ranges)-1]
			continue
		}
		current.End = d
	}

	return ranges
}
