package discoverydomain

// Campaign representa uma campanha da lista de campanhas
type Campaign struct {
	MongoID   FlexString `json:"mongo_id"`
	RemoteID  FlexString `json:"remote_id"`
	AccountID FlexString `json:"account_id"`
	Account   FlexString `json:"account"`
	Name      string     `json:"name"`
	EndDate   string     `json:"end_date"`
	Status    FlexString `json:"status"`
}

// ID devolve o identificador remoto preferindo mongo_id
func (c Campaign) ID() string {
	if c.MongoID != "" {
		return c.MongoID.String()
	}
	return c.RemoteID.String()
}

// Owner devolve a conta dona da campanha
func (c Campaign) Owner() string {
	if c.AccountID != "" && c.AccountID != "None" {
		return c.AccountID.String()
	}
	if c.Account != "None" {
		return c.Account.String()
	}
	return ""
}

type CampaignListResponse struct {
	Code FlexInt    `json:"code"`
	Msg  string     `json:"msg"`
	Data []Campaign `json:"data"`
}

// Ad representa um anúncio listado para uma campanha
type Ad struct {
	MongoID  FlexString `json:"mongo_id"`
	Campaign FlexString `json:"campaign"`
	Title    string     `json:"title"`
	Image    string     `json:"image"`
}

type AdListResponse struct {
	Code FlexInt `json:"code"`
	Msg  string  `json:"msg"`
	Data []Ad    `json:"data"`
}

// AuthResponse é o retorno da troca do segredo pelo token de acesso
type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   FlexInt `json:"expires_in"`
}
