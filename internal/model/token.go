package model

// Chain is a supported network registry entry.
type Chain struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	RPCURL string `json:"rpc_url"`
}

// Token is a registered ERC-20 contract on a chain. Address is empty
// for the chain's native coin.
type Token struct {
	ChainID  uint64 `json:"chain_id"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}
