package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common error response helper: detail is logged, never exposed.
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		log.Println(message+":", err)
	}
	sendErrorResponse(ctx, statusCode, message)
}

// GetProducts lists the catalog, optionally filtered by a case-insensitive
// substring match on the name.
func GetProducts(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		products, err := s.ListProducts(ctx.Query("search"))
		if err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
			return
		}
		if products == nil {
			products = []models.Product{}
		}
		ctx.JSON(http.StatusOK, products)
	}
}

func GetProduct(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		productID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
		if err != nil {
			respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
			return
		}

		product, err := s.GetProduct(uint(productID))
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
			return
		}
		if err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
			return
		}

		ctx.JSON(http.StatusOK, product)
	}
}

// getAWSUploader returns a configured AWS S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

// saveProductImage stores the uploaded image and returns the value to keep in
// the product record: the S3 object URL when AWS_BUCKET is configured, the
// local filename under static/images otherwise.
func saveProductImage(ctx *gin.Context, file *multipart.FileHeader) (string, error) {
	filename := uuid.NewString() + "-" + filepath.Base(file.Filename)

	bucket := os.Getenv("AWS_BUCKET")
	if bucket == "" {
		if err := ctx.SaveUploadedFile(file, filepath.Join("static", "images", filename)); err != nil {
			return "", err
		}
		return filename, nil
	}

	uploader, err := getAWSUploader()
	if err != nil {
		return "", err
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	result, err := uploader.Upload(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(filename),
		Body:        f,
		ACL:         "public-read",
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", err
	}
	return result.Location, nil
}

// AddProduct creates a catalog entry from a multipart form: name, price,
// stock, and the image file.
func AddProduct(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		name := ctx.PostForm("name")
		priceStr := ctx.PostForm("price")
		stockStr := ctx.PostForm("stock")
		file, fileErr := ctx.FormFile("image")

		if name == "" || priceStr == "" || stockStr == "" || fileErr != nil {
			respondWithError(ctx, http.StatusBadRequest, "Missing fields", nil)
			return
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			respondWithError(ctx, http.StatusBadRequest, "Invalid price", err)
			return
		}

		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			respondWithError(ctx, http.StatusBadRequest, "Invalid stock", err)
			return
		}

		image, err := saveProductImage(ctx, file)
		if err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to store product image", err)
			return
		}

		product := models.Product{Name: name, Price: price, Stock: stock, Image: image}
		if err := s.CreateProduct(&product); err != nil {
			respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product added", "id": product.ID})
	}
}

func RemoveProduct(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		productID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
		if err != nil {
			respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
			return
		}

		removed, err := s.DeleteProduct(uint(productID))
		if err != nil {
			respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
			return
		}
		if !removed {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": fmt.Sprintf("Product %d removed", productID)})
	}
}
