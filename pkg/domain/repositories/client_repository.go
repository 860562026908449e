package repositories

import "github.com/vsinha/sourcing/pkg/domain/entities"

// ClientRepository provides access to client master data
type ClientRepository interface {
	GetClient(code entities.ClientCode) (*entities.Client, bool)
	GetAllClients() ([]*entities.Client, error)
	LoadClients(clients []*entities.Client) error
}
