package db

import (
	"log"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&domain.Session{},
		&domain.Project{},
		&domain.File{},
		&domain.Version{},
		&domain.Collaboration{},
		&domain.Deployment{},
		&domain.Template{},
		&domain.AiChat{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}

// SeedData seeds the starter template catalog when the table is empty.
func SeedData() {
	var count int64
	if err := AppDb.Model(&domain.Template{}).Count(&count).Error; err != nil {
		log.Printf("Error counting templates: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Template catalog already seeded (%d templates)", count)
		return
	}

	now := time.Now().UTC()
	starters := []domain.Template{
		{
			ID:          uuid.NewString(),
			Name:        "React Starter",
			Description: "Minimal React app with a single component",
			Type:        "react",
			Files: datatypes.NewJSONType([]domain.TemplateFile{
				{Path: "/index.html", Content: "<!doctype html>\n<html>\n<body>\n<div id=\"root\"></div>\n<script type=\"module\" src=\"/src/main.jsx\"></script>\n</body>\n</html>\n", Type: "html"},
				{Path: "/src/main.jsx", Content: "import React from 'react';\nimport { createRoot } from 'react-dom/client';\nimport App from './App';\n\ncreateRoot(document.getElementById('root')).render(<App />);\n", Type: "javascript"},
				{Path: "/src/App.jsx", Content: "export default function App() {\n  return <h1>Hello from React</h1>;\n}\n", Type: "javascript"},
			}),
			Tags:       datatypes.NewJSONSlice([]string{"react", "starter", "spa"}),
			IsFeatured: true,
			CreatedAt:  now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Vue Starter",
			Description: "Minimal Vue 3 app",
			Type:        "vue",
			Files: datatypes.NewJSONType([]domain.TemplateFile{
				{Path: "/index.html", Content: "<!doctype html>\n<html>\n<body>\n<div id=\"app\"></div>\n<script type=\"module\" src=\"/src/main.js\"></script>\n</body>\n</html>\n", Type: "html"},
				{Path: "/src/main.js", Content: "import { createApp } from 'vue';\nimport App from './App.vue';\n\ncreateApp(App).mount('#app');\n", Type: "javascript"},
				{Path: "/src/App.vue", Content: "<template>\n  <h1>Hello from Vue</h1>\n</template>\n", Type: "vue"},
			}),
			Tags:       datatypes.NewJSONSlice([]string{"vue", "starter", "spa"}),
			IsFeatured: true,
			CreatedAt:  now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Vanilla Page",
			Description: "Plain HTML, CSS and JavaScript page",
			Type:        "vanilla",
			Files: datatypes.NewJSONType([]domain.TemplateFile{
				{Path: "/index.html", Content: "<!doctype html>\n<html>\n<head><link rel=\"stylesheet\" href=\"/style.css\"></head>\n<body>\n<h1>Hello</h1>\n<script src=\"/app.js\"></script>\n</body>\n</html>\n", Type: "html"},
				{Path: "/style.css", Content: "body { font-family: sans-serif; margin: 2rem; }\n", Type: "css"},
				{Path: "/app.js", Content: "console.log('hello');\n", Type: "javascript"},
			}),
			Tags:      datatypes.NewJSONSlice([]string{"vanilla", "starter"}),
			CreatedAt: now,
		},
	}

	if err := AppDb.Create(&starters).Error; err != nil {
		log.Printf("Error seeding templates: %v", err)
		return
	}
	log.Printf("Seeded %d starter templates", len(starters))
}
