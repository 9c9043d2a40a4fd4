package corpus

import (
	"time"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Seed returns a built-in ticket API corpus used when no corpus file is
// configured. It keeps the service runnable locally and mirrors the shape
// the scraper produces.
func Seed() domain.Corpus {
	return domain.Corpus{
		BaseURL:   "https://api.freshservice.com",
		ScrapedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Endpoints: []domain.Endpoint{
			{
				Name:        "Create Ticket",
				Method:      "POST",
				Path:        "/api/v2/tickets",
				Description: "Create a new ticket in Freshservice",
				Parameters: []domain.Parameter{
					{Name: "subject", Location: domain.LocationBody, Type: domain.TypeString, Required: true, Description: "Subject of the ticket"},
					{Name: "description", Location: domain.LocationBody, Type: domain.TypeString, Required: true, Description: "HTML content of the ticket"},
					{Name: "email", Location: domain.LocationBody, Type: domain.TypeString, Required: true, Description: "Email address of the requester"},
				},
				Example: `curl -v -u yourapikey:X -H "Content-Type: application/json" -d '{"subject":"Ticket Title","description":"<h2>Ticket content</h2>","email":"user@example.com"}' -X POST "https://domain.freshservice.com/api/v2/tickets"`,
				Tags:    []string{"tickets"},
			},
			{
				Name:        "Get Ticket",
				Method:      "GET",
				Path:        "/api/v2/tickets/{id}",
				Description: "Retrieve a specific ticket by ID",
				Parameters: []domain.Parameter{
					{Name: "id", Location: domain.LocationPath, Type: domain.TypeInteger, Required: true, Description: "Ticket ID"},
				},
				Example: `curl -v -u yourapikey:X -X GET "https://domain.freshservice.com/api/v2/tickets/1"`,
				Tags:    []string{"tickets"},
			},
			{
				Name:        "List Tickets",
				Method:      "GET",
				Path:        "/api/v2/tickets",
				Description: "Get a list of all tickets with optional filtering",
				Parameters: []domain.Parameter{
					{Name: "page", Location: domain.LocationQuery, Type: domain.TypeInteger, Required: false, Description: "Page number for pagination", Default: "1"},
					{Name: "per_page", Location: domain.LocationQuery, Type: domain.TypeInteger, Required: false, Description: "Number of records per page", Default: "30"},
				},
				Example: `curl -v -u yourapikey:X -X GET "https://domain.freshservice.com/api/v2/tickets?page=1&per_page=30"`,
				Tags:    []string{"tickets"},
			},
			{
				Name:        "Update Ticket",
				Method:      "PUT",
				Path:        "/api/v2/tickets/{id}",
				Description: "Update the attributes of an existing ticket",
				Parameters: []domain.Parameter{
					{Name: "id", Location: domain.LocationPath, Type: domain.TypeInteger, Required: true, Description: "Ticket ID"},
					{Name: "status", Location: domain.LocationBody, Type: domain.TypeInteger, Required: false, Description: "Status of the ticket"},
					{Name: "priority", Location: domain.LocationBody, Type: domain.TypeInteger, Required: false, Description: "Priority of the ticket"},
				},
				Example: `curl -v -u yourapikey:X -H "Content-Type: application/json" -d '{"status":2}' -X PUT "https://domain.freshservice.com/api/v2/tickets/1"`,
				Tags:    []string{"tickets"},
			},
			{
				Name:        "Delete Ticket",
				Method:      "DELETE",
				Path:        "/api/v2/tickets/{id}",
				Description: "Delete a ticket permanently",
				Parameters: []domain.Parameter{
					{Name: "id", Location: domain.LocationPath, Type: domain.TypeInteger, Required: true, Description: "Ticket ID"},
				},
				Example: `curl -v -u yourapikey:X -X DELETE "https://domain.freshservice.com/api/v2/tickets/1"`,
				Tags:    []string{"tickets"},
			},
		},
	}
}
