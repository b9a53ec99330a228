package services

import (
	"context"
	"fmt"

	"go-storefront/models"
)

var seedProducts = []models.Product{
	{
		Name:        "404 Not Found T-Shirt",
		Description: "Perfect for those days when you just can't be located. A classic web error turned into wearable humor.",
		Price:       29.99,
		Quantity:    100,
		Category:    "Programming Humor",
		Tags:        []string{"web development", "HTTP errors", "coding humor"},
		ImageURL:    "/404-shirt.jpg",
	},
	{
		Name:        "Hello World! T-Shirt",
		Description: "The classic first program everyone writes, now on a comfortable cotton blend shirt.",
		Price:       24.99,
		Quantity:    150,
		Category:    "Programming Basics",
		Tags:        []string{"beginner friendly", "programming basics", "classic code"},
		ImageURL:    "/hello-world-shirt.jpg",
	},
	{
		Name:        "CSS Is Awesome T-Shirt",
		Description: "A humorous take on CSS overflow issues, featuring the classic overflow box joke.",
		Price:       25.99,
		Quantity:    120,
		Category:    "Web Development",
		Tags:        []string{"css", "web design", "frontend"},
		ImageURL:    "/css-awesome-shirt.jpg",
	},
	{
		Name:        "Git Push --Force T-Shirt",
		Description: "Living dangerously? Show it with this shirt.",
		Price:       26.99,
		Quantity:    90,
		Category:    "Version Control",
		Tags:        []string{"git", "version control", "dangerous code"},
		ImageURL:    "/git-push-force-shirt.jpg",
	},
	{
		Name:        "Binary Hero T-Shirt",
		Description: "Because sometimes you just need to speak in 1s and 0s.",
		Price:       24.99,
		Quantity:    130,
		Category:    "Computer Science",
		Tags:        []string{"binary", "computer science", "geek wear"},
		ImageURL:    "/binary-hero-shirt.jpg",
	},
	{
		Name:        "SQL Query Master T-Shirt",
		Description: "SELECT * FROM wardrobe WHERE style = 'awesome';",
		Price:       26.99,
		Quantity:    85,
		Category:    "Database",
		Tags:        []string{"sql", "database", "query"},
		ImageURL:    "/sql-master-shirt.jpg",
	},
	{
		Name:        "Docker Captain T-Shirt",
		Description: "Container shipping has never looked this good.",
		Price:       29.99,
		Quantity:    80,
		Category:    "DevOps",
		Tags:        []string{"docker", "containers", "devops"},
		ImageURL:    "/docker-captain-shirt.jpg",
	},
	{
		Name:        "Infinite Loop T-Shirt",
		Description: "while(true) { keepLooking(); }",
		Price:       25.99,
		Quantity:    100,
		Category:    "Programming Humor",
		Tags:        []string{"loops", "programming basics", "humor"},
		ImageURL:    "/infinite-loop-shirt.jpg",
	},
}

// Seed fills an empty catalog with the starter products
func (s *ProductService) Seed(ctx context.Context) (int, error) {
	count, err := s.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, p := range seedProducts {
		p.IsActive = true
		p.Tags = append([]string(nil), p.Tags...)
		if _, err := s.products.Create(ctx, &p); err != nil {
			return 0, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	s.log.Info("products seeded", "count", len(seedProducts))
	return len(seedProducts), nil
}
