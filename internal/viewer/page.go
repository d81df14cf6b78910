package viewer

// indexHTML is the whole client: connect, draw frames, send controls.
// Kept inline so the binary serves itself with no asset directory.
const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>rigid2d viewer</title>
<style>
  body { background: #101014; color: #ccd; font-family: monospace; margin: 0; }
  header { display: flex; align-items: baseline; gap: 1em; padding: 8px 16px; }
  h1 { font-size: 16px; margin: 0; text-transform: uppercase; color: #5fd7af; }
  #status { color: #778; }
  canvas { display: block; margin: 0 auto; background: #16161c; border: 1px solid #2a2a33; }
  .controls { display: flex; gap: 8px; padding: 8px 16px; align-items: center; }
  button { background: #22222c; color: #ccd; border: 1px solid #3a3a44; padding: 4px 12px; cursor: pointer; }
  button:hover { border-color: #5fd7af; }
  #meta { color: #778; margin-left: auto; }
</style>
</head>
<body>
<header><h1 id="scene">&mdash;</h1><span id="status">connecting</span></header>
<canvas id="view" width="960" height="540"></canvas>
<div class="controls">
  <button id="pause">Pause</button>
  <button id="resume">Resume</button>
  <button id="reset">Reset</button>
  <span id="meta"></span>
</div>
<script>
var canvas = document.getElementById("view");
var ctx = canvas.getContext("2d");
var status = document.getElementById("status");
var bounds = null;

// The camera window only ever grows, so it stays put while bodies move.
function grow(frame) {
  var shapes = frame.shapes || [];
  for (var i = 0; i < shapes.length; i++) {
    var s = shapes[i], r = s.radius || 0, pts = s.points || [];
    for (var j = 0; j < pts.length; j++) {
      var x = pts[j][0], y = pts[j][1];
      if (!bounds) {
        bounds = { minx: x - r, miny: y - r, maxx: x + r, maxy: y + r };
      } else {
        bounds.minx = Math.min(bounds.minx, x - r);
        bounds.miny = Math.min(bounds.miny, y - r);
        bounds.maxx = Math.max(bounds.maxx, x + r);
        bounds.maxy = Math.max(bounds.maxy, y + r);
      }
    }
  }
}

function draw(frame) {
  grow(frame);
  if (!bounds) return;
  var pad = 1;
  var w = bounds.maxx - bounds.minx + 2 * pad;
  var h = bounds.maxy - bounds.miny + 2 * pad;
  var scale = Math.min(canvas.width / w, canvas.height / h);
  var ox = (canvas.width - w * scale) / 2;
  var oy = (canvas.height - h * scale) / 2;
  function px(x) { return ox + (x - bounds.minx + pad) * scale; }
  function py(y) { return canvas.height - oy - (y - bounds.miny + pad) * scale; }

  ctx.clearRect(0, 0, canvas.width, canvas.height);
  ctx.strokeStyle = "#5fd7af";
  ctx.lineWidth = 1.5;
  var shapes = frame.shapes || [];
  for (var i = 0; i < shapes.length; i++) {
    var s = shapes[i], pts = s.points || [];
    ctx.beginPath();
    if (s.kind === "circle" && pts.length > 0) {
      ctx.arc(px(pts[0][0]), py(pts[0][1]), (s.radius || 0) * scale, 0, 2 * Math.PI);
    } else if (s.kind === "segment" && pts.length > 1) {
      ctx.moveTo(px(pts[0][0]), py(pts[0][1]));
      ctx.lineTo(px(pts[1][0]), py(pts[1][1]));
    } else if (pts.length > 1) {
      ctx.moveTo(px(pts[0][0]), py(pts[0][1]));
      for (var j = 1; j < pts.length; j++) ctx.lineTo(px(pts[j][0]), py(pts[j][1]));
      ctx.closePath();
    }
    ctx.stroke();
  }
  document.getElementById("meta").textContent =
    "t=" + frame.time.toFixed(2) + "s  energy=" + frame.energy.toFixed(1) +
    "  step=" + frame.step;
}

var proto = location.protocol === "https:" ? "wss://" : "ws://";
var ws = new WebSocket(proto + location.host + "/ws");
ws.onopen = function () { status.textContent = "live"; };
ws.onclose = function () { status.textContent = "disconnected"; };
ws.onmessage = function (ev) {
  var msg = JSON.parse(ev.data);
  if (msg.type !== "frame") return;
  document.getElementById("scene").textContent = msg.scene;
  draw(msg.frame);
};
["pause", "resume", "reset"].forEach(function (id) {
  document.getElementById(id).onclick = function () {
    ws.send(JSON.stringify({ type: id }));
  };
});
</script>
</body>
</html>
`
