package list_blocks

import (
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров from, to (RFC3339, обязательные) и serviceId
func ToServiceRequest(r *http.Request, vendorID int64) (*models.ListBlocksRequest, error) {
	from, err := handlers.QueryTime(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryTime(r, "to")
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("from and to are required")
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		return nil, err
	}

	return &models.ListBlocksRequest{
		VendorID:  vendorID,
		From:      *from,
		To:        *to,
		ServiceID: serviceID,
	}, nil
}
