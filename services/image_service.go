package services

// ImageService resolves stored image keys into client-accessible URLs.
// Uploads are handled by an external pipeline; this API only stores opaque
// keys and computes read URLs on the way out.
type ImageService interface {
	// GetImageURL generates a URL for accessing a stored image key
	GetImageURL(imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(imageKey string) error
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// GetImageURL generates a presigned URL for a stored key. Empty keys resolve
// to an empty URL rather than an error.
func (s *S3ImageService) GetImageURL(imageKey string) (string, error) {
	return s.s3Service.GetPresignedURL(imageKey)
}

// DeleteImage removes an image from S3
func (s *S3ImageService) DeleteImage(imageKey string) error {
	return s.s3Service.DeleteFile(imageKey)
}
