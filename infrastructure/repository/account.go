package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/budget-hunter/infrastructure/database/postgres"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

const (
	accountsTable      = "bh_accounts a"
	accountTokensTable = "bh_d_account_token t"

	accountColumns = "a.id, a.platform, a.agent, a.account_id, a.account_name, a.budget, a.start_date, a.end_date, " +
		"a.cpc_goal, a.cpa_goal, a.ctr_goal, a.cv_definition, a.owner_email, a.status"
)

type AccountRepository interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	ListDiscoveryTokens(ctx context.Context, accountIDs []string) (map[string]string, error)
}

type accountRepository struct {
	conn postgres.Queryer
}

func NewAccountRepository(conn postgres.Queryer) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (a *accountRepository) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	accounts, err := a.ListAccounts(ctx, domain.AccountFilter{AccountID: accountID})
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return nil, nil
	}

	return accounts[0], nil
}

func (a *accountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	queryBuilder := squirrel.
		Select(accountColumns).
		From(accountsTable).
		OrderBy("a.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.AccountID != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"a.account_id": filter.AccountID})
	}

	if filter.Platform != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"a.platform": filter.Platform})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		queryBuilder = queryBuilder.Where(squirrel.Eq{"a.status": statuses})
	}

	accountsSQL, accountsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := a.conn.QueryContext(ctx, accountsSQL, accountsArgs...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao deserializar a conta: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return accounts, nil
}

func scanAccount(rows *sql.Rows) (*domain.Account, error) {
	acc := &domain.Account{}

	var (
		agent        sql.NullString
		budget       decimal.NullDecimal
		startDate    sql.NullTime
		endDate      sql.NullTime
		cpcGoal      sql.NullFloat64
		cpaGoal      sql.NullFloat64
		ctrGoal      sql.NullFloat64
		cvDefinition sql.NullString
	)

	if err := rows.Scan(
		&acc.ID,
		&acc.Platform,
		&agent,
		&acc.AccountID,
		&acc.AccountName,
		&budget,
		&startDate,
		&endDate,
		&cpcGoal,
		&cpaGoal,
		&ctrGoal,
		&cvDefinition,
		&acc.OwnerEmail,
		&acc.Status,
	); err != nil {
		return nil, err
	}

	acc.Agent = domain.ParseAgent(agent.String)
	acc.CVDefinition = cvDefinition.String
	if budget.Valid {
		acc.Budget = budget.Decimal
	}
	if startDate.Valid {
		acc.StartDate = &startDate.Time
	}
	if endDate.Valid {
		acc.EndDate = &endDate.Time
	}
	if cpcGoal.Valid {
		acc.CPCGoal = &cpcGoal.Float64
	}
	if cpaGoal.Valid {
		acc.CPAGoal = &cpaGoal.Float64
	}
	if ctrGoal.Valid {
		acc.CTRGoal = &ctrGoal.Float64
	}

	return acc, nil
}

// ListDiscoveryTokens devolve conta -> segredo armazenado para as contas da Discovery
func (a *accountRepository) ListDiscoveryTokens(ctx context.Context, accountIDs []string) (map[string]string, error) {
	tokens := make(map[string]string)
	if len(accountIDs) == 0 {
		return tokens, nil
	}

	query, args, err := squirrel.
		Select("t.account_id, t.token").
		From(accountTokensTable).
		Where(squirrel.Eq{"t.account_id": accountIDs}).
		Where(squirrel.NotEq{"t.token": nil}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var accountID, token string
		if err := rows.Scan(&accountID, &token); err != nil {
			return nil, fmt.Errorf("erro ao deserializar o token: %w", err)
		}
		if token != "" {
			tokens[accountID] = token
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return tokens, nil
}
