package get_customer_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// ToServiceRequest собирает фильтр списка из query параметров.
// Статус проверяется сервисом.
func ToServiceRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	var err error
	if req.ServiceID, err = handlers.QueryInt64(r, "serviceId"); err != nil {
		return nil, err
	}
	if req.From, err = handlers.QueryTime(r, "from"); err != nil {
		return nil, err
	}
	if req.To, err = handlers.QueryTime(r, "to"); err != nil {
		return nil, err
	}

	limit, err := handlers.QueryInt(r, "limit")
	if err != nil {
		return nil, err
	}
	offset, err := handlers.QueryInt(r, "offset")
	if err != nil {
		return nil, err
	}
	req.Limit = ptr.Value(limit)
	req.Offset = ptr.Value(offset)

	return req, nil
}
