package memory

import (
	"github.com/vsinha/sourcing/pkg/domain/entities"
	"github.com/vsinha/sourcing/pkg/domain/repositories"
)

// ClientRepository provides in-memory client master storage
type ClientRepository struct {
	clients    []entities.Client
	clientsMap map[entities.ClientCode]int
}

// NewClientRepository creates a new in-memory client repository
func NewClientRepository(expectedClients int) *ClientRepository {
	return &ClientRepository{
		clients:    make([]entities.Client, 0, expectedClients),
		clientsMap: make(map[entities.ClientCode]int, expectedClients),
	}
}

// Verify interface compliance
var _ repositories.ClientRepository = (*ClientRepository)(nil)

// LoadClients loads clients into the repository, rejecting repeated client codes
func (r *ClientRepository) LoadClients(clients []*entities.Client) error {
	for i, client := range clients {
		if perr := r.add(client); perr != nil {
			return perr.WithRow(i + 1)
		}
	}
	return nil
}

// SaveClient adds a client to the repository
func (r *ClientRepository) SaveClient(client *entities.Client) error {
	if perr := r.add(client); perr != nil {
		return perr
	}
	return nil
}

func (r *ClientRepository) add(client *entities.Client) *entities.PlanError {
	if _, exists := r.clientsMap[client.Code]; exists {
		return entities.NewPlanErrorf(entities.MalformedTable, "duplicate client %s", client.Code).
			WithTable("clients")
	}
	r.clientsMap[client.Code] = len(r.clients)
	r.clients = append(r.clients, *client)
	return nil
}

// GetClient returns client master data for a client code
func (r *ClientRepository) GetClient(code entities.ClientCode) (*entities.Client, bool) {
	index, exists := r.clientsMap[code]
	if !exists {
		return nil, false
	}
	return &r.clients[index], true
}

// GetAllClients returns all clients
func (r *ClientRepository) GetAllClients() ([]*entities.Client, error) {
	clients := make([]*entities.Client, 0, len(r.clients))
	for i := range r.clients {
		clients = append(clients, &r.clients[i])
	}
	return clients, nil
}
