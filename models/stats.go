package models

type QueueStats struct {
	Nome         string `json:"nome"`
	Estado       string `json:"estado"`
	Criado       string `json:"criado,omitempty"`
	Regiao       string `json:"regiao"`
	Mensagens    int    `json:"mensagens"`
	Consumidores int    `json:"consumidores"`
}
