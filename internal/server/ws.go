package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/recognizer"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow any origin
	},
}

// writeWait bounds how long one reply may take to send.
const writeWait = 10 * time.Second

// frameResponse is sent for every frame received on /ws/predict.
type frameResponse struct {
	Label      string  `json:"label"`
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Hand       bool    `json:"hand"`
}

type frameError struct {
	Error string `json:"error"`
}

type frameRequest struct {
	Image string `json:"image"`
}

// PredictSocket streams predictions over a WebSocket. Each connection gets
// its own smoothing window.
type PredictSocket struct {
	recognizer *recognizer.Recognizer
	window     int
	log        *logrus.Logger
}

// NewPredictSocket creates a PredictSocket.
func NewPredictSocket(rec *recognizer.Recognizer, window int, log *logrus.Logger) *PredictSocket {
	return &PredictSocket{recognizer: rec, window: window, log: log}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *PredictSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.WithField(logging.RequestIDKey, logging.RequestID(r.Context()))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithField("error", err).Warn("[server.PredictSocket] upgrade failed")
		return
	}
	defer conn.Close()

	// The HTTP server's deadlines still apply to the hijacked connection.
	conn.SetReadDeadline(time.Time{})
	conn.SetReadLimit(api.MaxBodyBytes)

	stream := h.recognizer.NewStream(h.window)
	log.Info("[server.PredictSocket] client connected")

	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithField("error", err).Debug("[server.PredictSocket] read ended")
			}
			break
		}

		reply := h.handle(stream, kind, msg)
		if f, ok := reply.(frameError); ok {
			log.WithField("error", f.Error).Debug("[server.PredictSocket] frame failed")
		}

		data, err := json.Marshal(reply)
		if err != nil {
			log.WithField("error", err).Error("[server.PredictSocket] encode reply")
			break
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.WithField("error", err).Debug("[server.PredictSocket] write failed")
			break
		}
	}

	log.Info("[server.PredictSocket] client disconnected")
}

// handle processes one message and returns the reply to send.
func (h *PredictSocket) handle(stream *recognizer.Stream, kind int, msg []byte) any {
	data, err := frameBytes(kind, msg)
	if err != nil {
		return h.failure(stream, err)
	}

	frame, err := recognizer.DecodeImage(data)
	if err != nil {
		return h.failure(stream, err)
	}
	defer frame.Close()

	res := stream.Process(frame)
	if res.Failed() {
		_, text := api.ErrorMessage(res.Err)
		return frameError{Error: text}
	}

	reply := frameResponse{Label: res.Label, Hand: res.Hand != nil}
	if res.Classified {
		reply.Prediction = res.Prediction.Label
		reply.Confidence = res.Prediction.Confidence
	}
	return reply
}

func (h *PredictSocket) failure(stream *recognizer.Stream, err error) frameError {
	res := stream.Fail(err)
	if errors.Is(err, errBadMessage) {
		return frameError{Error: api.MsgInvalidJSON}
	}
	_, text := api.ErrorMessage(res.Err)
	return frameError{Error: text}
}

// errBadMessage marks text messages that are not {"image": "..."}.
var errBadMessage = errors.New("bad message")

// frameBytes extracts the encoded image from a binary or text message.
func frameBytes(kind int, msg []byte) ([]byte, error) {
	if kind == websocket.BinaryMessage {
		return msg, nil
	}

	var req frameRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return nil, errBadMessage
	}
	if strings.TrimSpace(req.Image) == "" {
		return nil, recognizer.ErrInvalidInput
	}
	return recognizer.DecodePayload(req.Image)
}
