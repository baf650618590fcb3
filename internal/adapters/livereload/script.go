package livereload

import (
	"net/http"
)

// ScriptPath serves the client script.
const ScriptPath = "/__livereload.js"

// clientScript connects to SocketPath, hot swaps stylesheets and reloads on
// anything else. After a lost connection it reloads once the server is back.
const clientScript = `(function () {
  var rev = /-[0-9a-f]{10}(?=\.[^./]+$)/;
  function logical(p) { return p.split("?")[0].replace(rev, ""); }
  function swap(path) {
    var links = document.querySelectorAll('link[rel="stylesheet"]');
    var matched = false;
    for (var i = 0; i < links.length; i++) {
      var url = new URL(links[i].href, location.href);
      if (url.origin === location.origin && logical(url.pathname) === logical(path)) {
        links[i].href = path + "?livereload=" + Date.now();
        matched = true;
      }
    }
    return matched;
  }
  function connect(reloadOnOpen) {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(scheme + location.host + "` + SocketPath + `");
    ws.onopen = function () { if (reloadOnOpen) { location.reload(); } };
    ws.onmessage = function (event) {
      var msg = JSON.parse(event.data);
      if (msg.type === "css" && swap(msg.path)) { return; }
      location.reload();
    };
    ws.onclose = function () { setTimeout(function () { connect(true); }, 1000); };
  }
  connect(false);
})();
`

// ServeScript writes the client script.
func ServeScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(clientScript))
}
