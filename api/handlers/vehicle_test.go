package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openroadmotors/dealership-api/api/handlers"
	"github.com/openroadmotors/dealership-api/databases/mocks"
	"github.com/openroadmotors/dealership-api/models"
)

func TestVehicle_VehicleByIDHandlerBadID(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/vehicles/1234", nil)
	req = mux.SetURLVars(req, map[string]string{"vehicle_id": "1234"})

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: &mocks.VehicleDatabase{}}.VehicleByIDHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
}

func TestVehicle_VehicleByIDHandlerNotFound(t *testing.T) {
	vID := primitive.NewObjectID()
	vehicleDB := &mocks.VehicleDatabase{}
	vehicleDB.On("FindOne", mock.Anything, bson.M{"_id": vID}).Return(nil, mongo.ErrNoDocuments)

	req := httptest.NewRequest("GET", "/api/v1/vehicles/"+vID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"vehicle_id": vID.Hex()})

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: vehicleDB}.VehicleByIDHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVehicle_VehicleHandlerReturnsCatalog(t *testing.T) {
	vehicleDB := &mocks.VehicleDatabase{}
	vehicleDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.Vehicle{
		{ID: primitive.NewObjectID(), Make: "Toyota", Model: "Camry", Status: models.VehicleStatusAvailable},
		{ID: primitive.NewObjectID(), Make: "Honda", Model: "Accord", Status: models.VehicleStatusAvailable},
	}, nil)

	req := httptest.NewRequest("GET", "/api/v1/vehicles", nil)

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: vehicleDB}.VehicleHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.Vehicle
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestVehicle_VehicleHandlerSearchBuildsRegexFilter(t *testing.T) {
	vehicleDB := &mocks.VehicleDatabase{}
	vehicleDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.Vehicle{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/vehicles?q=camry&status=available", nil)

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: vehicleDB}.VehicleHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	filter := vehicleDB.Calls[0].Arguments.Get(1).(bson.M)
	assert.Equal(t, "available", filter["status"])
	or := filter["$or"].([]bson.M)
	assert.Len(t, or, 3)
	assert.Equal(t, bson.M{"$regex": "camry", "$options": "i"}, or[0]["make"])
}

func TestVehicle_CreateVehicleHandlerMissingMake(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{"model": "Camry", "price": 100})
	req := httptest.NewRequest("POST", "/api/v1/vehicles", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: &mocks.VehicleDatabase{}}.CreateVehicleHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVehicle_CreateVehicleHandlerNegativePrice(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{"make": "Toyota", "model": "Camry", "price": -1})
	req := httptest.NewRequest("POST", "/api/v1/vehicles", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: &mocks.VehicleDatabase{}}.CreateVehicleHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVehicle_CreateVehicleHandlerForcesAvailableStatus(t *testing.T) {
	vehicleDB := &mocks.VehicleDatabase{}
	vehicleDB.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)

	// client tries to smuggle in a sold status
	body, _ := json.Marshal(map[string]interface{}{
		"make": "Toyota", "model": "Camry", "year": 2022, "price": 2499900, "status": "sold",
	})
	req := httptest.NewRequest("POST", "/api/v1/vehicles", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: vehicleDB}.CreateVehicleHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	inserted := vehicleDB.Calls[0].Arguments.Get(1).(models.Vehicle)
	assert.Equal(t, models.VehicleStatusAvailable, inserted.Status)
}

func TestVehicle_UpdateVehicleHandlerNeverWritesStatus(t *testing.T) {
	vID := primitive.NewObjectID()
	vehicleDB := &mocks.VehicleDatabase{}
	vehicleDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"make": "Toyota", "model": "Camry", "price": 2399900, "status": "available",
	})
	req := httptest.NewRequest("PUT", "/api/v1/vehicles/"+vID.Hex(), bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"vehicle_id": vID.Hex()})

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: vehicleDB}.UpdateVehicleHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	update := vehicleDB.Calls[0].Arguments.Get(2).(bson.M)
	set := update["$set"].(bson.M)
	_, hasStatus := set["status"]
	assert.False(t, hasStatus)
	assert.Equal(t, int64(2399900), set["price"])
}

func TestVehicle_DeleteVehicleHandler(t *testing.T) {
	vID := primitive.NewObjectID()
	vehicleDB := &mocks.VehicleDatabase{}
	vehicleDB.On("DeleteOne", mock.Anything, bson.M{"_id": vID}).Return(nil)

	req := httptest.NewRequest("DELETE", "/api/v1/vehicles/"+vID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"vehicle_id": vID.Hex()})

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: vehicleDB}.DeleteVehicleHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	vehicleDB.AssertCalled(t, "DeleteOne", mock.Anything, bson.M{"_id": vID})
}

func TestVehicle_UploadVehicleImageHandlerRequiresImage(t *testing.T) {
	vID := primitive.NewObjectID()
	vehicleDB := &mocks.VehicleDatabase{}

	req := httptest.NewRequest("POST", "/api/v1/vehicles/"+vID.Hex()+"/images", nil)
	req = mux.SetURLVars(req, map[string]string{"vehicle_id": vID.Hex()})

	rr := httptest.NewRecorder()
	handlers.Vehicle{DB: vehicleDB}.UploadVehicleImageHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	vehicleDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}
