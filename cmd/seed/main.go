// cmd/seed/main.go
// Loads a starter catalog of categories, locations, races, modalities and
// instances so the site has something to browse on a fresh database.
//
// Usage:
//
//	go run ./cmd/seed
//	go run ./cmd/seed -force   # seed even when categories already exist
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/carreras/config"
	bundb "github.com/padraicbc/carreras/db"
	"github.com/padraicbc/carreras/models"
)

const placeholderTrack = "Route description pending."

func main() {
	force := flag.Bool("force", false, "seed even when the catalog is not empty")
	flag.Parse()

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	if !*force {
		n, err := db.NewSelect().Model((*models.Category)(nil)).Count(ctx)
		if err != nil {
			log.Fatal("count categories:", err)
		}
		if n > 0 {
			log.Fatal("catalog already seeded, re-run with -force to add anyway")
		}
	}

	if err := seed(ctx, db); err != nil {
		log.Fatal("seed:", err)
	}
	fmt.Println("catalog seeded")
}

func seed(ctx context.Context, db *bun.DB) error {
	categories := []*models.Category{
		{Name: "Road Running", Description: "Road running involves racing on paved roads and is popular for events ranging from 5Ks to marathons. The surfaces are usually flat and smooth, making it ideal for fast pacing and consistent running conditions."},
		{Name: "Trail Running", Description: "Trail running takes place on hiking trails, mountain paths or forest routes. It often features challenging terrain such as hills, mud and obstacles like roots and rocks, and ranges from short distances to ultramarathons."},
		{Name: "Obstacle Course Racing (OCR)", Description: "Obstacle course racing combines running with physical challenges that test strength, endurance and agility, with obstacles such as walls to climb, weights to carry and mud pits to cross."},
	}
	if _, err := db.NewInsert().Model(&categories).Exec(ctx); err != nil {
		return fmt.Errorf("categories: %w", err)
	}

	locations := []*models.Location{
		{City: "Granada", Community: "Andalucía"},
		{City: "Valencia", Community: "Comunidad Valenciana"},
		{City: "Sevilla", Community: "Andalucía"},
		{City: "Castellón", Community: "Comunidad Valenciana"},
		{City: "Palas de Rei", Community: "Galicia"},
		{City: "Irún", Community: "País Vasco"},
		{City: "Guipúzcoa", Community: "País Vasco"},
		{City: "Benia de Onís", Community: "Asturias"},
		{City: "Huesca", Community: "Aragón"},
		{City: "La Palma", Community: "Islas Canarias"},
		{City: "Monzón", Community: "Aragón"},
		{City: "Madrid", Community: "Comunidad de Madrid"},
		{City: "Ponferrada", Community: "Castilla y Leon"},
		{City: "Getxo", Community: "País Vasco"},
		{City: "Alicante", Community: "Comunidad Valenciana"},
		{City: "Melide", Community: "Galicia"},
		{City: "San Sebastián", Community: "País Vasco"},
	}
	if _, err := db.NewInsert().Model(&locations).Exec(ctx); err != nil {
		return fmt.Errorf("locations: %w", err)
	}

	road, trail, ocr := categories[0], categories[1], categories[2]
	races := []*models.Race{
		{Name: "Maratón de Valencia", CategoryID: road.CategoryID, Description: "The Valencia Marathon is held annually in the historic city of Valencia which, with its entirely flat circuit and perfect November temperature, represents the ideal setting for a long-distance sporting challenge."},
		{Name: "Maratón de Sevilla", CategoryID: road.CategoryID, Description: "The Zurich Maratón de Sevilla is the flattest marathon in Europe and the second fastest in Spain. It is the perfect place to run a personal best."},
		{Name: "Maratón de Castellón", CategoryID: road.CategoryID, Description: "This WA Bronze Label race gathers more than 5000 runners from around the world and consolidates Castelló as a reference sports city."},
		{Name: "Os 21 Do Camiño", CategoryID: road.CategoryID, Description: "A half marathon through Galician nature along El Camino de Santiago, awarded the World Heritage designation by UNESCO."},
		{Name: "Behobia", CategoryID: road.CategoryID, Description: "A very demanding route with two major summits, Gaintxurizketa (km 7) and Alto de Miracruz (km 16), and a positive climb of 192 m."},
		{Name: "Ultra Trail Sierra Nevada", CategoryID: trail.CategoryID, Description: "An experience full of nature, culture and high summits. From the foot of the Alhambra to the Veleta Peak."},
		{Name: "Zegama Aizkorri", CategoryID: trail.CategoryID, Description: "An international skyrunning competition held since 2002, running from Zegama up to Aizkorri each May as part of the Skyrunner World Series."},
		{Name: "Gran Trail Picos de Europa", CategoryID: trail.CategoryID, Description: "One of the most renowned races in northern Spain. It starts in Benia de Onís and enters the Picos de Europa National Park, with four levels of difficulty."},
		{Name: "Gran Trail del Aneto", CategoryID: trail.CategoryID, Description: "The Great Aneto-Posets Trail runs through all types of terrain around the two highest peaks of the Pyrenees, the Aneto (3404 m) and the Posets (3375 m)."},
		{Name: "Transvulcania", CategoryID: trail.CategoryID, Description: "A long distance race held annually on La Palma, considered one of the hardest mountain ultramarathons in the world."},
		{Name: "Templar Race Monzón", CategoryID: ocr.CategoryID, Description: "A tough circuit with obstacles, passing through the monumental Castle of Monzón and finishing with a brutal leg killer."},
		{Name: "Spartan Race Madrid", CategoryID: ocr.CategoryID, Description: "A race that tests participants on rugged trails requiring a mix of strength, agility and speed."},
		{Name: "Farinato Race Ponferrada", CategoryID: ocr.CategoryID, Description: "An obstacle race through the streets and surroundings of Ponferrada."},
		{Name: "Desafío de Guerreros Getxo", CategoryID: ocr.CategoryID, Description: "Team sports and obstacle racing surrounded by nature, with water, mud and impressive obstacles."},
		{Name: "Survivor Race Alicante", CategoryID: ocr.CategoryID, Description: "A race with distances of 6km, 10km and 15km full of obstacles offering different levels of difficulty and fun."},
	}
	if _, err := db.NewInsert().Model(&races).Exec(ctx); err != nil {
		return fmt.Errorf("races: %w", err)
	}

	modalities := []*models.Modality{
		{RaceID: races[0].RaceID, StartLocationID: locations[1].LocationID, EndLocationID: locations[1].LocationID, Distance: 42.195, Track: placeholderTrack},
		{RaceID: races[1].RaceID, StartLocationID: locations[2].LocationID, EndLocationID: locations[2].LocationID, Distance: 42.195, Track: placeholderTrack},
		{RaceID: races[2].RaceID, StartLocationID: locations[3].LocationID, EndLocationID: locations[3].LocationID, Distance: 42.195, Track: placeholderTrack},
		{RaceID: races[3].RaceID, StartLocationID: locations[4].LocationID, EndLocationID: locations[4].LocationID, Distance: 21, Track: placeholderTrack},
		{RaceID: races[4].RaceID, StartLocationID: locations[5].LocationID, EndLocationID: locations[5].LocationID, Distance: 20, Track: placeholderTrack},
		{RaceID: races[5].RaceID, StartLocationID: locations[0].LocationID, EndLocationID: locations[0].LocationID, Distance: 105, Elevation: 6260, Track: placeholderTrack},
	}
	if _, err := db.NewInsert().Model(&modalities).Exec(ctx); err != nil {
		return fmt.Errorf("modalities: %w", err)
	}

	nextDecember := time.Date(time.Now().Year(), time.December, 1, 9, 0, 0, 0, time.UTC)
	instances := []*models.Instance{
		{ModalityID: modalities[0].ModalityID, Date: nextDecember, Price: 60},
		{ModalityID: modalities[1].ModalityID, Date: nextDecember, Price: 60},
		{ModalityID: modalities[2].ModalityID, Date: nextDecember, Price: 60},
		{ModalityID: modalities[3].ModalityID, Date: nextDecember, Price: 30},
		{ModalityID: modalities[4].ModalityID, Date: nextDecember, Price: 30},
		{ModalityID: modalities[5].ModalityID, Date: nextDecember, Price: 30},
	}
	if _, err := db.NewInsert().Model(&instances).Exec(ctx); err != nil {
		return fmt.Errorf("instances: %w", err)
	}
	return nil
}
